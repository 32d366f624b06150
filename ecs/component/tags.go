package component

// AnchorATag marks the rope's start anchor, the one the player moves.
type AnchorATag struct{}

var AnchorATagComponent = NewComponent[AnchorATag]()

// AnchorBTag marks the rope's free end.
type AnchorBTag struct{}

var AnchorBTagComponent = NewComponent[AnchorBTag]()
