package protocol

// Patch types sent to clients
const (
	PatchSnapshot      = "GridSnapshot"
	PatchCellsChanged  = "CellsChanged"
	PatchCommandOutput = "CommandOutput"
	PatchError         = "Error"
)

type PatchEnvelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

// GridSnapshot carries the whole grid, row major from the south west corner.
type GridSnapshot struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Porosity float64 `json:"porosity"`
	Cells    []uint8 `json:"cells"`
}

type Cell struct {
	X    int   `json:"x"`
	Y    int   `json:"y"`
	Mask uint8 `json:"mask"`
}

type CellsChanged struct {
	Cells []Cell `json:"cells"`
}

type CommandOutput struct {
	Name   string `json:"name"`
	Output string `json:"output"`
}

type ErrorMessage struct {
	Intent  string `json:"intent"`
	Message string `json:"message"`
}
