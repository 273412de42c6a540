package protocol

import "encoding/json"

// Intent types sent by clients
const (
	IntentEdit     = "RequestEdit"
	IntentSetMask  = "RequestSetMask"
	IntentGenerate = "RequestGenerate"
	IntentPorosity = "RequestPorosity"
	IntentCommand  = "RequestCommand"
)

type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RequestEdit is a click on a cell. Rotate is set when the modifier key
// was held.
type RequestEdit struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Rotate bool `json:"rotate"`
}

type RequestSetMask struct {
	X    int   `json:"x"`
	Y    int   `json:"y"`
	Mask uint8 `json:"mask"`
}

type RequestGenerate struct {
}

type RequestPorosity struct {
	Value float64 `json:"value"`
}

type RequestCommand struct {
	Name string `json:"name"`
}
