package chainmanager

import (
	"sort"
	"sync"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Registry holds the chain descriptors the application accepts, keyed by chain id.
// Membership in the registry is what makes a chain allow-listed.
type Registry struct {
	logger      *logrus.Logger
	chains      map[uint64]types.ChainDescriptor
	chainsMutex sync.RWMutex
}

// NewRegistry creates a registry populated with the given descriptors.
//
// Parameters:
// - logger: the logger for logging purposes.
// - descriptors: the chains to register, at least one.
//
// Returns:
// - *Registry: the new registry.
// - error: an error if no descriptor is given or a descriptor is invalid.
func NewRegistry(logger *logrus.Logger, descriptors ...types.ChainDescriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, errors.Wrap(neterrors.ErrInvalidConfig, "registry needs at least one chain")
	}

	r := &Registry{
		logger: logger,
		chains: make(map[uint64]types.ChainDescriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if err := r.Add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewKaiaRegistry creates a registry holding the Kaia test and main networks.
func NewKaiaRegistry(logger *logrus.Logger) *Registry {
	r, err := NewRegistry(logger, chains.All()...)
	if err != nil {
		// chains.All is a fixed, valid list.
		panic(err)
	}
	return r
}

// Add registers a descriptor.
//
// Parameters:
// - desc: the chain descriptor.
//
// Returns:
// - error: ErrInvalidChainID for a zero id, ErrChainExists for a duplicate.
func (r *Registry) Add(desc types.ChainDescriptor) error {
	if desc.ID == 0 {
		return neterrors.ErrInvalidChainID
	}

	r.chainsMutex.Lock()
	defer r.chainsMutex.Unlock()

	if _, exists := r.chains[desc.ID]; exists {
		return errors.Wrapf(neterrors.ErrChainExists, "chain id %d", desc.ID)
	}
	r.chains[desc.ID] = desc

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"chain":    desc.Name,
			"chain_id": desc.ID,
		}).Debug("Chain registered")
	}
	return nil
}

// Get returns the descriptor registered under chainID.
func (r *Registry) Get(chainID uint64) (types.ChainDescriptor, bool) {
	r.chainsMutex.RLock()
	desc, ok := r.chains[chainID]
	r.chainsMutex.RUnlock()
	return desc, ok
}

// GetByHex returns the descriptor whose id matches the hex encoded chainIDHex.
func (r *Registry) GetByHex(chainIDHex string) (types.ChainDescriptor, bool) {
	id, err := chains.ParseHex(chainIDHex)
	if err != nil {
		return types.ChainDescriptor{}, false
	}
	return r.Get(id)
}

// GetByType returns the first descriptor, by ascending id, of the given network type.
func (r *Registry) GetByType(t types.NetworkType) (types.ChainDescriptor, bool) {
	for _, desc := range r.All() {
		if desc.Type == t {
			return desc, true
		}
	}
	return types.ChainDescriptor{}, false
}

// IsAllowed reports whether chainID is registered.
func (r *Registry) IsAllowed(chainID uint64) bool {
	_, ok := r.Get(chainID)
	return ok
}

// IDs returns the registered chain ids in ascending order.
func (r *Registry) IDs() []uint64 {
	r.chainsMutex.RLock()
	ids := make([]uint64, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	r.chainsMutex.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns the registered descriptors ordered by chain id.
func (r *Registry) All() []types.ChainDescriptor {
	ids := r.IDs()
	out := make([]types.ChainDescriptor, 0, len(ids))

	r.chainsMutex.RLock()
	defer r.chainsMutex.RUnlock()
	for _, id := range ids {
		if desc, ok := r.chains[id]; ok {
			out = append(out, desc)
		}
	}
	return out
}
