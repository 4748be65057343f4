package gridview

import (
	"iter"
	"math"

	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// WorldToCell converts a world position to the index of the cell containing it
func WorldToCell(pos mgl64.Vec3, cellSize float64) geometry.Vec3i {
	return geometry.Vec3i{
		X: int(math.Floor(pos.X() / cellSize)),
		Y: int(math.Floor(pos.Y() / cellSize)),
		Z: int(math.Floor(pos.Z() / cellSize)),
	}
}

// CellCenter returns the world position of the center of a cell
func CellCenter(cell geometry.Vec3i, cellSize float64) mgl64.Vec3 {
	return cell.Vec3().Add(mgl64.Vec3{0.5, 0.5, 0.5}).Mul(cellSize)
}

// RaycastImplicitGrid walks every cell of size cellSize crossed by the segment start→end,
// in order from the start cell to the end cell (Amanatides & Woo traversal).
//
// The grid is implicit: nothing is stored, only indices are produced. The sequence is lazy and
// finite, stop early by breaking out of the range loop. The walk visits at most
// 1 + Manhattan(startCell, endCell) cells, so a degenerate segment yields exactly one cell.
func RaycastImplicitGrid(start, end mgl64.Vec3, cellSize float64) iter.Seq[geometry.Vec3i] {
	return func(yield func(geometry.Vec3i) bool) {
		cell := WorldToCell(start, cellSize)
		endCell := WorldToCell(end, cellSize)

		if !yield(cell) {
			return
		}

		dir := end.Sub(start)
		var step [3]int
		var tMax, tDelta [3]float64
		current := [3]int{cell.X, cell.Y, cell.Z}

		for axis := 0; axis < 3; axis++ {
			switch {
			case dir[axis] > 0:
				step[axis] = 1
				boundary := float64(current[axis]+1) * cellSize
				tMax[axis] = (boundary - start[axis]) / dir[axis]
				tDelta[axis] = cellSize / dir[axis]
			case dir[axis] < 0:
				step[axis] = -1
				boundary := float64(current[axis]) * cellSize
				tMax[axis] = (boundary - start[axis]) / dir[axis]
				tDelta[axis] = -cellSize / dir[axis]
			default:
				tMax[axis] = math.Inf(1)
				tDelta[axis] = math.Inf(1)
			}
		}

		// each step crosses exactly one cell face, so a diagonal walk needs the Manhattan
		// distance; capping at the largest axis delta would stop it short of endCell
		steps := cell.Manhattan(endCell)
		for range steps {
			if cell == endCell {
				return
			}

			axis := 0
			if tMax[1] < tMax[axis] {
				axis = 1
			}
			if tMax[2] < tMax[axis] {
				axis = 2
			}
			if step[axis] == 0 {
				// rounding put the end cell on an axis the segment does not move along
				return
			}

			current[axis] += step[axis]
			tMax[axis] += tDelta[axis]
			cell = geometry.Vec3i{X: current[0], Y: current[1], Z: current[2]}

			if !yield(cell) {
				return
			}
		}
	}
}

// RaycastImplicitGridFunc is the callback form of RaycastImplicitGrid, visit returns true to stop the walk
func RaycastImplicitGridFunc(start, end mgl64.Vec3, cellSize float64, visit func(cell geometry.Vec3i) bool) {
	for cell := range RaycastImplicitGrid(start, end, cellSize) {
		if visit(cell) {
			return
		}
	}
}
