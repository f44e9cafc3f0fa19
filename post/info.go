package post

// BlockDims holds the ghost-trimmed mesh extents of one block.
type BlockDims struct {
	Nx int
	Ny int
	Nz int
}

// SimInfo carries the global simulation parameters read from info.ini.
// Blocks are numbered 1..NBlocks; Dims is keyed by block id.
type SimInfo struct {
	NBlocks int
	Dims    map[int]BlockDims
	URef    float64 // reference (freestream) velocity
	RhoRef  float64 // reference density
	IsCurv  bool    // curvilinear grid flag
	Ngh     int     // ghost points per side in the raw grid files
}

// Face identifies one mesh boundary of a block. The solver convention puts
// walls at Jmin.
type Face int

const (
	FaceImin Face = iota
	FaceImax
	FaceJmin
	FaceJmax
	FaceKmin
	FaceKmax
)

// BCKind classifies a boundary condition as far as the engine cares:
// a no-slip wall, a slip wall, or anything else (inflow, outflow,
// connectivity, periodicity).
type BCKind int

const (
	BCOther BCKind = iota
	BCWall
	BCSlipWall
)

func (k BCKind) String() string {
	switch k {
	case BCWall:
		return "wall"
	case BCSlipWall:
		return "slip-wall"
	default:
		return "other"
	}
}

// BlockBC holds the per-face boundary-condition tags of one block.
type BlockBC map[Face]BCKind

// Topology groups the per-block boundary-condition descriptors and the
// optional wall-normal unit-vector fields. Normals are keyed by block id;
// a nil map entry means no precomputed normals exist for that block.
type Topology struct {
	BCs     map[int]BlockBC
	Normals map[int]*WallNormalField

	// HasNormalFile records whether a wall-normal file was loaded. When
	// false the engine substitutes the flat-wall fallback on demand; when
	// true a missing block entry is a hard error.
	HasNormalFile bool
}

// NewTopology returns an empty topology with no wall-normal file loaded.
func NewTopology() *Topology {
	return &Topology{
		BCs:     make(map[int]BlockBC),
		Normals: make(map[int]*WallNormalField),
	}
}

// HasWall reports whether the block has a no-slip wall on its Jmin face.
// Slip walls do not count: the engine treats them like wall-less blocks.
func (t *Topology) HasWall(block int) bool {
	bc, ok := t.BCs[block]
	if !ok {
		return false
	}
	return bc[FaceJmin] == BCWall
}
