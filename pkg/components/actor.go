package components

import "github.com/decker502/locomotion/pkg/physics"

// ActorComponent 由运动驱动的运动学角色
type ActorComponent struct {
	Name  string
	Actor *physics.KinematicActor
}
