package sim

// Disk is a hard disk in the periodic cell.
// CellID is derived from Position and is maintained by State; it always names
// the grid cell that contains Position.
type Disk struct {
	Position
	Radius float64
	CellID int
}

// ContactDistanceSq returns (2r)^2, the squared separation at contact.
func ContactDistanceSq(radius float64) float64 {
	d := 2 * radius
	return d * d
}

// AreDisksOverlapping reports whether a and b overlap under the minimum-image convention.
// Touching disks (separation exactly a.Radius+b.Radius) do not overlap.
func AreDisksOverlapping(a, b Disk, box Box) bool {
	sigma := a.Radius + b.Radius
	return DistanceSqPeriodic(a.Position, b.Position, box) < sigma*sigma
}
