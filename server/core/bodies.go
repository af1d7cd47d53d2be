package core

import (
	"time"

	"github.com/automoto/tank-arena/shared/gamemath"
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// The body types hold per-entity server state. They are not donburi
// components; they exist only on the server and are never synced. Each
// resolv object's Data points back at its body.

type tankBody struct {
	Entity    donburi.Entity
	Object    *resolv.Object
	SessionID string
	Seq       uint64 // join order

	LastFire       time.Time
	PendingUpgrade bool
}

type shotBody struct {
	Entity   donburi.Entity
	Object   *resolv.Object
	Consumed bool
}

type blockBody struct {
	Entity    donburi.Entity
	Object    *resolv.Object
	Slot      int
	RespawnAt time.Time
}

type pickupBody struct {
	Entity donburi.Entity
	Object *resolv.Object
	ID     uint64
	Kind   netconfig.PickupKind
}

type bossBody struct {
	Entity     donburi.Entity
	Object     *resolv.Object
	NextAttack time.Time
}

// newBody creates a collision object of w×h at x, y and adds it to space.
func newBody(space *resolv.Space, x, y, w, h float64, tag string) *resolv.Object {
	obj := resolv.NewObject(x, y, w, h, tag)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	space.Add(obj)
	return obj
}

// moveBody repositions a collision object and refreshes its cells.
func moveBody(obj *resolv.Object, x, y float64) {
	obj.X = x
	obj.Y = y
	obj.Update()
}

func bodyRect(obj *resolv.Object) gamemath.Rect {
	return gamemath.Rect{X: obj.X, Y: obj.Y, W: obj.W, H: obj.H}
}

// overlapping returns the objects carrying tag whose boxes exactly overlap
// obj. resolv's cell check is only used as the broad phase.
func overlapping(obj *resolv.Object, tag string) []*resolv.Object {
	check := obj.Check(0, 0, tag)
	if check == nil {
		return nil
	}
	box := bodyRect(obj)
	var out []*resolv.Object
	for _, o := range check.ObjectsByTags(tag) {
		if box.Overlaps(bodyRect(o)) {
			out = append(out, o)
		}
	}
	return out
}
