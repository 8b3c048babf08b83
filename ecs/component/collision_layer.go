package component

import "strings"

// Category is a single-bit collision category.
type Category uint32

const (
	CategoryBall Category = 1 << iota
	CategoryBottom
	CategoryBlock
	CategoryPaddle
	CategoryWall
)

func (c Category) String() string {
	names := []struct {
		bit  Category
		name string
	}{
		{CategoryBall, "ball"},
		{CategoryBottom, "bottom"},
		{CategoryBlock, "block"},
		{CategoryPaddle, "paddle"},
		{CategoryWall, "wall"},
	}
	var parts []string
	for _, n := range names {
		if c&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Has reports whether every bit of other is set in c.
func (c Category) Has(other Category) bool {
	return other != 0 && c&other == other
}

// CollisionLayer declares an entity's collision category and the categories
// it wants contact events for.
type CollisionLayer struct {
	Category Category
	// CollisionMask is the set of categories this entity physically collides
	// with. If zero, the physics system treats it as all bits set.
	CollisionMask Category
	// ContactMask is the set of categories that produce contact events when
	// touched by this entity. Contacts are resolved physically either way.
	ContactMask Category
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
