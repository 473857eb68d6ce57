package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Collision categories used for shape filters and ray masks.
const (
	CategoryObstacle uint = 1 << iota
	CategoryBounds
	CategoryAgent
	CategoryTarget
	CategoryProjectile
)

// DefaultFixedStep is the physics step used when none is configured.
const DefaultFixedStep = 1.0 / 60.0

// maxStepsPerFrame bounds catch-up work after a long frame.
const maxStepsPerFrame = 8

// PhysicsWorld owns the Chipmunk space, static obstacle shapes and the
// bodies of dynamic entities. It is the query/impulse service the AI core
// reads from: positions, segment queries and the velocity sink.
type PhysicsWorld struct {
	space       *cp.Space
	fixedStep   float64
	accumulator float64

	bodies        map[Entity]*cp.Body
	shapes        map[Entity]*cp.Shape
	shapeToEntity map[*cp.Shape]Entity
}

// NewPhysicsWorld creates a physics world. Top-down arenas pass a zero
// gravity vector; agent bodies ignore gravity either way.
func NewPhysicsWorld(gravity cp.Vector, fixedStep float64) *PhysicsWorld {
	if fixedStep <= 0 {
		fixedStep = DefaultFixedStep
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)

	return &PhysicsWorld{
		space:         space,
		fixedStep:     fixedStep,
		bodies:        make(map[Entity]*cp.Body),
		shapes:        make(map[Entity]*cp.Shape),
		shapeToEntity: make(map[*cp.Shape]Entity),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// FixedStep returns the simulation step length in seconds.
func (pw *PhysicsWorld) FixedStep() float64 {
	if pw == nil {
		return DefaultFixedStep
	}
	return pw.fixedStep
}

// AddObstacle adds a static box that blocks movement and line of sight.
func (pw *PhysicsWorld) AddObstacle(bb cp.BB) *cp.Shape {
	if pw == nil || pw.space == nil {
		return nil
	}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, CategoryObstacle, cp.ALL_CATEGORIES))
	pw.space.AddShape(shape)
	return shape
}

// AddBounds encloses the arena with static segments. Bounds block movement
// but are not obstacles for line of sight.
func (pw *PhysicsWorld) AddBounds(width, height float64) {
	if pw == nil || pw.space == nil || width <= 0 || height <= 0 {
		return
	}
	thickness := 1.0
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: width, Y: 0}},
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: height}},
		{a: cp.Vector{X: width, Y: 0}, b: cp.Vector{X: width, Y: height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(pw.space.StaticBody, seg.a, seg.b, thickness)
		shape.SetFriction(0.8)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, CategoryBounds, cp.ALL_CATEGORIES))
		pw.space.AddShape(shape)
	}
}

// EnsureBody creates a dynamic circle body for the entity if it has none.
// The body has fixed rotation and ignores gravity; its velocity is written
// each step by the physics system.
func (pw *PhysicsWorld) EnsureBody(e Entity, pos cp.Vector, radius float64, category uint, sensor bool) *cp.Body {
	if pw == nil || pw.space == nil || !e.Valid() {
		return nil
	}
	if body, ok := pw.bodies[e]; ok {
		return body
	}
	if radius <= 0 {
		radius = 8
	}

	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(pos)
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetSensor(sensor)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.track(e, body, shape)
	return body
}

// EnsureKinematicBody creates a body moved by explicit position or velocity
// writes, used for the player target and for projectiles.
func (pw *PhysicsWorld) EnsureKinematicBody(e Entity, pos cp.Vector, radius float64, category uint, sensor bool) *cp.Body {
	if pw == nil || pw.space == nil || !e.Valid() {
		return nil
	}
	if body, ok := pw.bodies[e]; ok {
		return body
	}
	if radius <= 0 {
		radius = 8
	}
	body := cp.NewKinematicBody()
	body.SetPosition(pos)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(sensor)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.track(e, body, shape)
	return body
}

func (pw *PhysicsWorld) track(e Entity, body *cp.Body, shape *cp.Shape) {
	pw.bodies[e] = body
	pw.shapes[e] = shape
	pw.shapeToEntity[shape] = e
}

// Body returns the body of an entity.
func (pw *PhysicsWorld) Body(e Entity) (*cp.Body, bool) {
	if pw == nil {
		return nil, false
	}
	body, ok := pw.bodies[e]
	return body, ok && body != nil
}

// EntityForShape maps a shape back to its owning entity.
func (pw *PhysicsWorld) EntityForShape(shape *cp.Shape) (Entity, bool) {
	if pw == nil || shape == nil {
		return 0, false
	}
	e, ok := pw.shapeToEntity[shape]
	return e, ok
}

// DisableCollision makes the entity's shape invisible to collisions and
// queries without removing its body.
func (pw *PhysicsWorld) DisableCollision(e Entity) {
	if pw == nil {
		return
	}
	if shape, ok := pw.shapes[e]; ok && shape != nil {
		shape.SetFilter(cp.SHAPE_FILTER_NONE)
	}
}

// RemoveEntity removes the entity's body and shape from the space.
func (pw *PhysicsWorld) RemoveEntity(e Entity) {
	if pw == nil || pw.space == nil {
		return
	}
	if shape, ok := pw.shapes[e]; ok && shape != nil {
		pw.space.RemoveShape(shape)
		delete(pw.shapeToEntity, shape)
	}
	if body, ok := pw.bodies[e]; ok && body != nil {
		pw.space.RemoveBody(body)
	}
	delete(pw.shapes, e)
	delete(pw.bodies, e)
}

// Raycast reports whether a ray from origin along direction hits a shape
// whose category is in mask within maxDistance.
func (pw *PhysicsWorld) Raycast(origin, direction cp.Vector, maxDistance float64, mask uint) bool {
	if pw == nil || pw.space == nil || maxDistance <= 0 {
		return false
	}
	if direction.LengthSq() == 0 {
		return false
	}
	end := origin.Add(direction.Normalize().Mult(maxDistance))
	info := pw.space.SegmentQueryFirst(origin, end, 0, cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask))
	return info.Shape != nil
}

// Step advances the simulation by dt seconds in fixed increments and
// returns how many increments ran. before is called ahead of each increment
// so velocity writers observe a consistent step.
func (pw *PhysicsWorld) Step(dt float64, before func(step float64)) int {
	if pw == nil || pw.space == nil || dt <= 0 {
		return 0
	}
	pw.accumulator += dt
	steps := 0
	for pw.accumulator >= pw.fixedStep && steps < maxStepsPerFrame {
		if before != nil {
			before(pw.fixedStep)
		}
		pw.space.Step(pw.fixedStep)
		pw.accumulator -= pw.fixedStep
		steps++
	}
	if steps == maxStepsPerFrame {
		pw.accumulator = 0
	}
	return steps
}
