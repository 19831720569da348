// Package plane projects the draw engine onto a rows x cols grid.
//
// A Plane owns one engine over the linear ids [0, rows*cols) and only
// translates coordinates; it never duplicates engine state. Positions are
// 1-based and map row-major:
//
//	index = (row-1)*cols + (col-1)
//	row   = index/cols + 1
//	col   = index%cols + 1
//
// The plane is persisted under its own deterministic ID
// (BalancedRandPlane_{rows}_{cols}_{pool}_{gap}_{boost}_{decay}), so a grid
// and a plain range over the same ids keep separate histories.
package plane
