package detector

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/adapters/record" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the change detector Graft node.
const NodeID graft.ID = "engine.detector"

func init() {
	graft.Register(graft.Node[ports.ChangeDetector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{record.NodeID},
		Run: func(ctx context.Context) (ports.ChangeDetector, error) {
			store, err := graft.Dep[ports.RecordStore](ctx)
			if err != nil {
				return nil, err
			}
			return New(store, clockwork.NewRealClock()), nil
		},
	})
}
