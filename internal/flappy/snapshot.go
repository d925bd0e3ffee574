package flappy

// EntityView is the renderer's view of the entity.
type EntityView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Vel    float64 `json:"vel"`
}

// Snapshot is a read-only copy of the simulation for renderers and
// spectators. Units are playfield units, not cells or pixels.
type Snapshot struct {
	Round          string     `json:"round"`
	State          State      `json:"state"`
	Entity         EntityView `json:"entity"`
	Gates          []Gate     `json:"gates"`
	Score          int        `json:"score"`
	BestScore      int        `json:"bestScore"`
	CountdownLeft  float64    `json:"countdownLeft"`
	PlayfieldW     float64    `json:"playfieldWidth"`
	PlayfieldH     float64    `json:"playfieldHeight"`
	Tick           uint64     `json:"tick"`
	PersistenceOff bool       `json:"persistenceOff"`
}
