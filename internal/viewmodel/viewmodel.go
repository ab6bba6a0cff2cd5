// Package viewmodel holds the client-side mirror of the remote items
// collection and applies user commands to it.
//
// Every command is split in two: a Begin step that validates input and
// updates Status, and a Finish step that applies the API response. Front
// ends that run requests asynchronously call them separately; Load,
// Create and Delete run both around a blocking call.
//
// A ViewModel is not safe for concurrent use. Call it from one goroutine,
// e.g. a Bubble Tea update loop.
package viewmodel

import (
	"context"
	"errors"
	"log"
	"slices"

	"github.com/Makepad-fr/items/internal/model"
)

// Collection is the remote side of the view-model.
type Collection interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, d model.Draft) (model.Item, error)
	Delete(ctx context.Context, id string) error
}

// ErrNameRequired is returned by Create for a blank draft name.
var ErrNameRequired = errors.New("item name is required")

// Messages shown to the user.
const (
	MsgNameRequired = "Item name is required"
	msgFetchFailed  = "Failed to fetch items: "
	msgCreateFailed = "Failed to create item: "
	msgDeleteFailed = "Failed to delete item: "
)

type ViewModel struct {
	remote Collection

	items   []model.Item
	draft   model.Draft
	loading bool
	errMsg  string

	loadSeq uint64 // latest dispatched load
}

func New(remote Collection) *ViewModel {
	return &ViewModel{remote: remote, items: []model.Item{}}
}

// Remote is the collection this view-model mirrors.
func (vm *ViewModel) Remote() Collection { return vm.remote }

// Items returns a copy of the local collection.
func (vm *ViewModel) Items() []model.Item { return slices.Clone(vm.items) }

// Status is derived so that loading and error never show at once.
func (vm *ViewModel) Status() Status {
	switch {
	case vm.errMsg != "":
		return Status{Kind: StatusError, Message: vm.errMsg}
	case vm.loading:
		return Status{Kind: StatusLoading}
	default:
		return Status{Kind: StatusIdle}
	}
}

func (vm *ViewModel) Draft() model.Draft { return vm.draft }

func (vm *ViewModel) SetDraft(d model.Draft) { vm.draft = d }

// Snapshot captures everything a renderer needs.
func (vm *ViewModel) Snapshot() Snapshot {
	return Snapshot{Items: vm.Items(), Draft: vm.draft, Status: vm.Status()}
}

// ---------------------------------------------------
// load
// ---------------------------------------------------

// BeginLoad marks a load as in flight and returns its sequence number.
func (vm *ViewModel) BeginLoad() uint64 {
	vm.loadSeq++
	vm.loading = true
	vm.errMsg = ""
	return vm.loadSeq
}

// FinishLoad applies the result of load seq. Results of loads older than
// the latest BeginLoad are dropped; it reports whether this one was applied.
func (vm *ViewModel) FinishLoad(seq uint64, items []model.Item, err error) bool {
	if seq != vm.loadSeq {
		log.Printf("viewmodel: dropping stale load #%d (latest #%d)", seq, vm.loadSeq)
		return false
	}
	vm.loading = false
	if err != nil {
		log.Printf("viewmodel: load: %v", err)
		vm.errMsg = msgFetchFailed + err.Error()
		return true
	}
	vm.items = slices.Clone(items)
	if vm.items == nil {
		vm.items = []model.Item{}
	}
	vm.errMsg = ""
	return true
}

// Load fetches the collection and replaces local state with it.
func (vm *ViewModel) Load(ctx context.Context) error {
	seq := vm.BeginLoad()
	items, err := vm.remote.List(ctx)
	vm.FinishLoad(seq, items, err)
	return err
}

// ---------------------------------------------------
// create
// ---------------------------------------------------

// BeginCreate validates the current draft. When ok is false a validation
// error is set and nothing must be sent.
func (vm *ViewModel) BeginCreate() (d model.Draft, ok bool) {
	if !vm.draft.Valid() {
		vm.errMsg = MsgNameRequired
		return model.Draft{}, false
	}
	vm.errMsg = ""
	return vm.draft, true
}

// FinishCreate appends the item returned by the server.
func (vm *ViewModel) FinishCreate(it model.Item, err error) {
	if err != nil {
		log.Printf("viewmodel: create: %v", err)
		vm.errMsg = msgCreateFailed + err.Error()
		return
	}
	vm.items = append(vm.items, it)
	vm.draft = model.Draft{}
	vm.errMsg = ""
}

// Create submits the current draft.
func (vm *ViewModel) Create(ctx context.Context) (model.Item, error) {
	d, ok := vm.BeginCreate()
	if !ok {
		return model.Item{}, ErrNameRequired
	}
	it, err := vm.remote.Create(ctx, d)
	vm.FinishCreate(it, err)
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// ---------------------------------------------------
// delete
// ---------------------------------------------------

// BeginDelete clears any displayed error before a removal is sent.
func (vm *ViewModel) BeginDelete() { vm.errMsg = "" }

// FinishDelete removes the item with id once the server confirmed it.
// An id not present locally is a no-op.
func (vm *ViewModel) FinishDelete(id string, err error) {
	if err != nil {
		log.Printf("viewmodel: delete %s: %v", id, err)
		vm.errMsg = msgDeleteFailed + err.Error()
		return
	}
	if i := slices.IndexFunc(vm.items, func(it model.Item) bool { return it.ID == id }); i >= 0 {
		vm.items = slices.Delete(vm.items, i, i+1)
	}
	vm.errMsg = ""
}

// Delete removes id remotely, then locally.
func (vm *ViewModel) Delete(ctx context.Context, id string) error {
	vm.BeginDelete()
	err := vm.remote.Delete(ctx, id)
	vm.FinishDelete(id, err)
	return err
}
