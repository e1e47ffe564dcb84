// Package balance holds the constant tables that both server and client
// must agree on bit-for-bit: tower and unit stats, fixed routes, and the
// timing/economy constants from the wire contract.
package balance

// PlayerId identifies one of the two seats in a match.
type PlayerId string

const (
	PlayerA PlayerId = "A"
	PlayerB PlayerId = "B"
)

// Opponent returns the other seat.
func (p PlayerId) Opponent() PlayerId {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

func (p PlayerId) Valid() bool {
	return p == PlayerA || p == PlayerB
}

const (
	TileSizePx = 32
	TickRate   = 20
	SimDt      = 1.0 / float64(TickRate)

	PrepSeconds      = 30
	RoundAckTimeout  = 30
	MinSimSeconds    = 5
	TailSeconds      = 3
	StartLives       = 20
	StartGold        = 150
	GoldPerKill      = 5
	NumRoutes        = 5
	OutboxBufferSize = 256

	DefaultHost       = "0.0.0.0"
	DefaultPort       = 42069
	DefaultWorkerPool = 10
)

// TowerStats describes the immutable balance record for a tower type.
type TowerStats struct {
	Damage        int
	RangePx       float64
	CooldownTicks int
	Cost          int
}

// UnitStats describes the immutable balance record for a unit type.
type UnitStats struct {
	Health       int
	SpeedPxPerS  float64
	Cost         int
}

// TowerTable is the server/client shared contract for tower types.
var TowerTable = map[string]TowerStats{
	"standard": {Damage: 25, RangePx: 96, CooldownTicks: 20, Cost: 20},
	"sniper":   {Damage: 60, RangePx: 192, CooldownTicks: 50, Cost: 45},
	"rapid":    {Damage: 8, RangePx: 80, CooldownTicks: 5, Cost: 30},
	"splash":   {Damage: 18, RangePx: 72, CooldownTicks: 24, Cost: 35},
}

// UnitTable is the server/client shared contract for unit types.
var UnitTable = map[string]UnitStats{
	"standard": {Health: 10, SpeedPxPerS: 48, Cost: 5},
	"fast":     {Health: 6, SpeedPxPerS: 96, Cost: 6},
	"tank":     {Health: 60, SpeedPxPerS: 24, Cost: 18},
}

func TowerStatsFor(towerType string) (TowerStats, bool) {
	s, ok := TowerTable[towerType]
	return s, ok
}

func UnitStatsFor(unitType string) (UnitStats, bool) {
	s, ok := UnitTable[unitType]
	return s, ok
}

// TileCoord is a (row, col) pair in a player's local, unmirrored grid
// frame. Mirroring player B's coordinates is a transport-boundary
// concern (see internal/transport); everything under internal/ works in
// this local frame only.
type TileCoord struct {
	Row, Col int
}

// Routes holds the 5 fixed routes shared by both players, expressed as
// tile coordinate lists in the local frame. Index 0..4 selects a route.
var Routes = [NumRoutes][]TileCoord{
	{{0, 0}, {0, 3}, {4, 3}, {4, 8}, {9, 8}},
	{{1, 0}, {1, 5}, {6, 5}, {6, 2}, {9, 2}},
	{{2, 0}, {5, 0}, {5, 6}, {8, 6}, {9, 6}},
	{{0, 9}, {0, 6}, {4, 6}, {4, 1}, {9, 1}},
	{{3, 0}, {3, 9}, {7, 9}, {7, 4}, {9, 4}},
}

// TileCenterPx returns the pixel center of a tile, using the
// tile*TILE + TILE/2 convention.
func TileCenterPx(row, col int) (float64, float64) {
	x := float64(col*TileSizePx + TileSizePx/2)
	y := float64(row*TileSizePx + TileSizePx/2)
	return x, y
}

// RoutePixels converts a route's tile waypoints to pixel centers, once.
func RoutePixels(route int) [][2]float64 {
	coords := Routes[route]
	out := make([][2]float64, len(coords))
	for i, c := range coords {
		x, y := TileCenterPx(c.Row, c.Col)
		out[i] = [2]float64{x, y}
	}
	return out
}

const (
	GridRows = 10
	GridCols = 10
)

// PathTilesFor lists the tiles of a route that grid initialization marks
// as PATH cells: the route's waypoint tiles only. Tiles a unit crosses
// between two waypoints are not included.
func PathTilesFor(route int) []TileCoord {
	return Routes[route]
}
