package component

// Spot is a waypoint visited by the home sequence in ascending Order.
type Spot struct {
	Order int
}

var SpotComponent = NewComponent[Spot]()
