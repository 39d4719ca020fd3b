package engine

import (
	"campus-feed/internal/database"
	"campus-feed/internal/engine/actors"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine wires the aggregate actors together. Cross-aggregate side effects
// (karma from likes, enrollment sync from join/leave) are sent to the engine
// PID, which routes them to the directory so the sending actor never blocks
// on another mailbox.
type Engine struct {
	directoryPID *actor.PID
	coursePID    *actor.PID
	contentPID   *actor.PID
	routerPID    *actor.PID
}

// routerActor fans cross-actor messages out to their owners.
type routerActor struct {
	directoryPID *actor.PID
}

func (r *routerActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actors.UpdateKarmaMsg:
		context.Send(r.directoryPID, msg)
	case *actors.EnrollmentChangedMsg:
		context.Send(r.directoryPID, msg)
	}
}

func NewEngine(system *actor.ActorSystem, metrics *utils.MetricsCollector, db database.Adapter) *Engine {
	context := system.Root

	directoryProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewDirectoryActor(metrics, db)
	})
	directoryPID := context.Spawn(directoryProps)

	routerProps := actor.PropsFromProducer(func() actor.Actor {
		return &routerActor{directoryPID: directoryPID}
	})
	routerPID := context.Spawn(routerProps)

	courseProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCourseActor(metrics, routerPID, db)
	})
	coursePID := context.Spawn(courseProps)

	contentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewContentActor(metrics, routerPID, db)
	})
	contentPID := context.Spawn(contentProps)

	return &Engine{
		directoryPID: directoryPID,
		coursePID:    coursePID,
		contentPID:   contentPID,
		routerPID:    routerPID,
	}
}

// GetDirectoryActor returns the PID of the identity directory actor
func (e *Engine) GetDirectoryActor() *actor.PID {
	return e.directoryPID
}

// GetCourseActor returns the PID of the course registry/enrollment actor
func (e *Engine) GetCourseActor() *actor.PID {
	return e.coursePID
}

// GetContentActor returns the PID of the content store actor
func (e *Engine) GetContentActor() *actor.PID {
	return e.contentPID
}
