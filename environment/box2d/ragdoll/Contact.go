package ragdoll

import (
	"github.com/ByteArena/box2d"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/walker"
)

// contactDetector counts the ground contacts of every body part
type contactDetector struct {
	env *Ragdoll
}

func newContactDetector(r *Ragdoll) *contactDetector {
	return &contactDetector{r}
}

// slot returns the body part touching the ground in contact, if any
func (c *contactDetector) slot(contact box2d.B2ContactInterface) (walker.Slot,
	bool) {
	a := contact.GetFixtureA().GetBody()
	b := contact.GetFixtureB().GetBody()
	if a != c.env.ground && b != c.env.ground {
		return 0, false
	}

	for _, s := range walker.Slots() {
		body := c.env.parts[s].body
		if body != nil && (body == a || body == b) {
			return s, true
		}
	}
	return 0, false
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	if s, ok := c.slot(contact); ok {
		c.env.parts[s].contacts++
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {
	if s, ok := c.slot(contact); ok && c.env.parts[s].contacts > 0 {
		c.env.parts[s].contacts--
	}
}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}
