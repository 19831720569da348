package engine

// Blacklist entries must belong to the universe and are silently dropped
// otherwise. Whitelist entries are not validated: ids outside the universe
// extend the active set. Every mutator ends with refresh().

// SetBlacklist replaces the blacklist.
func (e *Engine) SetBlacklist(ids []int) {
	e.blacklist = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		e.blacklist[id] = struct{}{}
	}
	e.validateBlacklist()
	e.refresh()
}

// AddToBlacklist adds ids to the blacklist.
func (e *Engine) AddToBlacklist(ids []int) {
	for _, id := range ids {
		e.blacklist[id] = struct{}{}
	}
	e.validateBlacklist()
	e.refresh()
}

// RemoveFromBlacklist removes ids from the blacklist.
func (e *Engine) RemoveFromBlacklist(ids []int) {
	for _, id := range ids {
		delete(e.blacklist, id)
	}
	e.refresh()
}

// ClearBlacklist empties the blacklist.
func (e *Engine) ClearBlacklist() {
	clear(e.blacklist)
	e.refresh()
}

// Blacklist returns the blacklisted ids, ascending.
func (e *Engine) Blacklist() []int {
	return sortedSet(e.blacklist)
}

// InBlacklist reports whether id is blacklisted.
func (e *Engine) InBlacklist(id int) bool {
	_, ok := e.blacklist[id]
	return ok
}

// SetWhitelist replaces the whitelist.
func (e *Engine) SetWhitelist(ids []int) {
	e.whitelist = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		e.whitelist[id] = struct{}{}
	}
	e.trackWhitelist()
	e.refresh()
}

// AddToWhitelist adds ids to the whitelist.
func (e *Engine) AddToWhitelist(ids []int) {
	for _, id := range ids {
		e.whitelist[id] = struct{}{}
	}
	e.trackWhitelist()
	e.refresh()
}

// RemoveFromWhitelist removes ids from the whitelist. Their counts are kept.
func (e *Engine) RemoveFromWhitelist(ids []int) {
	for _, id := range ids {
		delete(e.whitelist, id)
	}
	e.refresh()
}

// ClearWhitelist empties the whitelist.
func (e *Engine) ClearWhitelist() {
	clear(e.whitelist)
	e.refresh()
}

// Whitelist returns the whitelisted ids, ascending.
func (e *Engine) Whitelist() []int {
	return sortedSet(e.whitelist)
}

// InWhitelist reports whether id is whitelisted.
func (e *Engine) InWhitelist(id int) bool {
	_, ok := e.whitelist[id]
	return ok
}

// SetWhitelistOnly restricts the pool to the whitelist. Counts are untouched.
func (e *Engine) SetWhitelistOnly(only bool) {
	e.whitelistOnly = only
	e.refresh()
}

// WhitelistOnly reports whether whitelist-only mode is on.
func (e *Engine) WhitelistOnly() bool {
	return e.whitelistOnly
}

func (e *Engine) validateBlacklist() {
	for id := range e.blacklist {
		if !e.space.Contains(id) {
			delete(e.blacklist, id)
		}
	}
}

// trackWhitelist gives every whitelist id a count and round entry.
func (e *Engine) trackWhitelist() {
	for id := range e.whitelist {
		if _, ok := e.counts[id]; !ok {
			e.counts[id] = 0
		}
		if _, ok := e.lastRound[id]; !ok {
			e.lastRound[id] = neverDrawn
		}
	}
}
