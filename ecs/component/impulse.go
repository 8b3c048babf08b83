package component

// Impulse is a one-shot request to kick a dynamic body. The physics system
// applies it once the body exists in the space and then removes it.
type Impulse struct {
	X float64
	Y float64
}

var ImpulseComponent = NewComponent[Impulse]()
