package suggestion

// Message is the inbound {type:"suggestion", ...} frame (§6).
type Message struct {
	Type      string   `json:"type"`
	RequestID string   `json:"requestId"`
	FEN       string   `json:"fen"`
	Moves     []string `json:"moves,omitempty"`

	TargetElo     *int    `json:"targetElo,omitempty"`
	Personality   string  `json:"personality,omitempty"`
	MultiPV       *int    `json:"multiPv,omitempty"`
	Contempt      *int    `json:"contempt,omitempty"`
	Variety       *int    `json:"variety,omitempty"`
	PuzzleMode    *bool   `json:"puzzleMode,omitempty"`
	LimitStrength *bool   `json:"limitStrength,omitempty"`
	Armageddon    string  `json:"armageddon,omitempty"`

	SearchMode     string `json:"searchMode,omitempty"`
	SearchNodes    *int   `json:"searchNodes,omitempty"`
	SearchDepth    *int   `json:"searchDepth,omitempty"`
	SearchMovetime *int   `json:"searchMovetime,omitempty"`
}

// CandidateResult is one labeled candidate in the outbound result.
type CandidateResult struct {
	Move      string   `json:"move"`
	PV        []string `json:"pv"`
	Eval      int      `json:"eval"`
	WinRate   float64  `json:"winRate"`
	DrawRate  float64  `json:"drawRate"`
	LossRate  float64  `json:"lossRate"`
	Depth     int      `json:"depth"`
	MateScore *int     `json:"mateScore,omitempty"`
	Label     string   `json:"label"`
}

// Result is the {type:"suggestion_result", ...} outbound payload.
type Result struct {
	Type         string            `json:"type"`
	RequestID    string            `json:"requestId"`
	FEN          string            `json:"fen"`
	Candidates   []CandidateResult `json:"candidates"`
	PositionEval float64           `json:"positionEval"`
	MateIn       *int              `json:"mateIn,omitempty"`
	WinRate      float64           `json:"winRate"`
	MaxDepth     int               `json:"maxDepth"`
}
