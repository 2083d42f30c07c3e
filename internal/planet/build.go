package planet

import "fmt"

// BuildCategory :
// What kind of item a build order produces.
type BuildCategory string

const (
	CategoryBuilding BuildCategory = "building"
	CategoryDefense  BuildCategory = "defense"
)

// ErrNoSlotAvailable :
// Indicates `start_build` was called for a building item but the
// planet has no free slot to pin.
var ErrNoSlotAvailable = fmt.Errorf("no building slot available")

// ErrUnknownItem :
// Indicates `start_build` was called with an item id present in
// neither `registry.Buildings` nor `registry.DefenseUnits`.
var ErrUnknownItem = fmt.Errorf("unknown build item")

// BuildOrder :
// One entry in a planet's FIFO build queue.
//
// The `ItemID` identifies the registry entry being built.
//
// The `ItemName` is cached for display without a registry lookup.
//
// The `BuildTimeSeconds` is the total time required, derived at
// enqueue time from `industry_cost / total_industry_points * 60`.
//
// The `IndustryCost` is the item's industry cost (`cost.industry`,
// defaulting to 1000), kept for display and persistence.
//
// The `Category` distinguishes a building from a defense unit.
//
// The `Progress` is the elapsed seconds of construction so far.
//
// The `SlotIndex` pins the target slot at enqueue time for buildings;
// -1 for defense orders, which never pin a slot.
type BuildOrder struct {
	ItemID           string        `json:"item_id" msgpack:"item_id"`
	ItemName         string        `json:"item_name" msgpack:"item_name"`
	BuildTimeSeconds float64       `json:"build_time_seconds" msgpack:"build_time_seconds"`
	IndustryCost     float64       `json:"industry_cost" msgpack:"industry_cost"`
	Category         BuildCategory `json:"category" msgpack:"category"`
	Progress         float64       `json:"progress" msgpack:"progress"`
	SlotIndex        int           `json:"slot_index" msgpack:"slot_index"`
}

// advance :
// Advances this order's progress by `deltaSeconds`.
//
// Returns true once `Progress` has reached `BuildTimeSeconds`.
func (o *BuildOrder) advance(deltaSeconds float64) bool {
	o.Progress += deltaSeconds
	return o.Progress >= o.BuildTimeSeconds
}

// BuildQueue :
// Strictly FIFO queue of build orders; only the head order ever
// progresses. A second order waits for the first to complete before
// its own progress starts accumulating.
type BuildQueue struct {
	Orders []*BuildOrder `json:"orders" msgpack:"orders"`
}

// NewBuildQueue :
// Creates an empty build queue.
func NewBuildQueue() *BuildQueue {
	return &BuildQueue{}
}

// Enqueue :
// Appends an order to the tail of the queue.
func (q *BuildQueue) Enqueue(order *BuildOrder) {
	q.Orders = append(q.Orders, order)
}

// Advance :
// Advances the head order by `deltaSeconds`. If it completes, it is
// dequeued and returned; the next order (if any) does not start
// progressing until the following call.
//
// Returns the completed order, or nil if the queue is empty or the
// head order hasn't finished yet.
func (q *BuildQueue) Advance(deltaSeconds float64) *BuildOrder {
	if len(q.Orders) == 0 {
		return nil
	}

	head := q.Orders[0]
	if !head.advance(deltaSeconds) {
		return nil
	}

	q.Orders = q.Orders[1:]
	return head
}
