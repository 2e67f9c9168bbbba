package commands

import (
	"github.com/lucas/huechat/internal/api"
	"github.com/lucas/huechat/internal/config"
	"github.com/lucas/huechat/internal/history"
	"github.com/lucas/huechat/internal/tui"
)

// Dependencies holds the shared pieces the commands construct at
// startup. Construction failures leave the field nil and record the
// error, so the chat TUI can come up degraded instead of aborting.
type Dependencies struct {
	Config    config.Config
	ConfigErr error

	Client    api.ClientInterface
	ClientErr error

	Store    *history.Store
	StoreErr error
}

// NewDependencies loads the config and builds the API client and the
// history store.
func NewDependencies() *Dependencies {
	deps := &Dependencies{}
	deps.Config, deps.ConfigErr = config.LoadConfig()

	modelName := modelFlag
	if modelName == "" {
		modelName = deps.Config.DefaultModel
	}

	// Assign the interface only on success so a nil client stays a nil
	// interface value.
	client, err := api.NewClient(api.WithModel(modelName))
	if err != nil {
		deps.ClientErr = err
	} else {
		deps.Client = client
	}

	store, err := history.DefaultStore()
	if err != nil {
		deps.StoreErr = err
	} else {
		deps.Store = store
	}

	return deps
}

// ChatStore hands the store to the chat window. The nil pointer must
// not cross the interface boundary or the TUI's nil check stops
// working.
func (d *Dependencies) ChatStore() tui.HistoryStore {
	if d.Store == nil {
		return nil
	}
	return d.Store
}
