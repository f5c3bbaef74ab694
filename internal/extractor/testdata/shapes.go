package shapes

// Shape is the common contract for drawable figures.
type Shape interface {
	Area() float64
	Scale(factor float64) Shape
}

// Named extends Shape with a display name.
type Named interface {
	Shape
	Name() string
}

// Figure carries the shared identity of every figure.
type Figure struct {
	ID    int
	label string
}

// Circle is a concrete figure.
type Circle struct {
	Figure
	Shape
	Radius float64
	Tags   []string
	Links  []*Circle
}

// NewCircle builds a circle of the given radius.
func NewCircle(radius float64) (*Circle, error) {
	return &Circle{Radius: radius}, nil
}

// Unit returns the unit circle.
func Unit() *Circle {
	c, _ := NewCircle(1)
	return c
}

// Sum is unrelated to any declared type.
func Sum(a, b int) int {
	return a + b
}

func helper() *Circle {
	return nil
}
