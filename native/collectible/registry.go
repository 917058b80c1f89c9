package collectible

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"encorechain/core/events"
	nativecommon "encorechain/native/common"
)

const moduleName = "collectible"

// metadataItemPath is the fixed path segment between a series' metadata base
// and the item sequence number.
const metadataItemPath = "/items/"

var sequenceStateKey = []byte("collectible:seq")

func seriesStateKey(id uint32) []byte {
	return []byte(fmt.Sprintf("collectible:series:%d", id))
}

type registryState interface {
	IsOrganizer(addr [20]byte) bool
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	AssetBalance(addr [20]byte, assetID uint64) (*big.Int, error)
	AddAssetBalance(addr [20]byte, assetID uint64, amount *big.Int) error
}

type rewardBurner interface {
	Debit(caller, holder [20]byte, amount *big.Int) error
}

// Registry creates collectible series and mints sequentially numbered
// editions against reward token payment.
type Registry struct {
	st      registryState
	burner  rewardBurner
	burnAs  [20]byte
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewRegistry creates a registry backed by the provided state manager.
// Redemption payments are burned through burner with burnAs as the calling
// authority.
func NewRegistry(st registryState, burner rewardBurner, burnAs [20]byte) *Registry {
	return &Registry{st: st, burner: burner, burnAs: burnAs, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

func (r *Registry) SetPauses(p nativecommon.PauseView) {
	if r == nil {
		return
	}
	r.pauses = p
}

func (r *Registry) nextSequence() (uint32, error) {
	var seq uint32
	ok, err := r.st.KVGet(sequenceStateKey, &seq)
	if err != nil {
		return 0, err
	}
	if !ok {
		return FirstSeriesID, nil
	}
	return seq, nil
}

// SeriesOf returns the stored series record. The boolean reports whether the
// series exists.
func (r *Registry) SeriesOf(id uint32) (*Series, bool, error) {
	series := new(Series)
	ok, err := r.st.KVGet(seriesStateKey(id), series)
	if err != nil || !ok {
		return nil, false, err
	}
	if series.UnitPrice == nil {
		series.UnitPrice = big.NewInt(0)
	}
	return series, true, nil
}

// CreateSeries registers a new collectible series and returns its
// identifier. Organizer only. Identifiers are allocated sequentially starting
// above the reserved pass tier range.
func (r *Registry) CreateSeries(caller [20]byte, name, metadataBase string, unitPrice *big.Int, maxItems uint64, active bool) (uint32, error) {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return 0, err
	}
	if !r.st.IsOrganizer(caller) {
		return 0, ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	metadataBase = strings.TrimSpace(metadataBase)
	if unitPrice == nil || unitPrice.Sign() <= 0 {
		return 0, ErrInvalidPrice
	}
	if maxItems == 0 {
		return 0, ErrInvalidSupply
	}
	if name == "" {
		return 0, ErrNameRequired
	}
	if metadataBase == "" {
		return 0, ErrLocatorRequired
	}

	id, err := r.nextSequence()
	if err != nil {
		return 0, err
	}
	series := &Series{
		Name:         name,
		MetadataBase: metadataBase,
		UnitPrice:    new(big.Int).Set(unitPrice),
		MaxItems:     maxItems,
		NextItem:     1,
		Active:       active,
	}
	if err := r.st.KVPut(seriesStateKey(id), series); err != nil {
		return 0, err
	}
	if err := r.st.KVPut(sequenceStateKey, id+1); err != nil {
		return 0, err
	}
	r.emitter.Emit(events.CollectibleSeriesCreated{
		SeriesID: uint64(id),
		Name:     name,
		MaxItems: maxItems,
	})
	return id, nil
}

// SetSeriesActive toggles the active flag on a series. Organizer only.
func (r *Registry) SetSeriesActive(caller [20]byte, id uint32, active bool) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if !r.st.IsOrganizer(caller) {
		return ErrUnauthorized
	}
	series, ok, err := r.SeriesOf(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownSeries
	}
	series.Active = active
	if err := r.st.KVPut(seriesStateKey(id), series); err != nil {
		return err
	}
	r.emitter.Emit(events.CollectibleSeriesUpdated{SeriesID: uint64(id), Active: active})
	return nil
}

// Redeem burns the series' unit price from the caller's reward balance and
// mints the next edition to them.
func (r *Registry) Redeem(caller [20]byte, id uint32) (*Minted, error) {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return nil, err
	}
	series, ok, err := r.SeriesOf(id)
	if err != nil {
		return nil, err
	}
	if !ok || series.UnitPrice.Sign() == 0 {
		return nil, ErrUnknownSeries
	}
	if !series.Active {
		return nil, ErrSeriesInactive
	}
	if series.NextItem > series.MaxItems {
		return nil, ErrSeriesSoldOut
	}

	// The debit runs before any registry mutation so an insufficient balance
	// leaves the series untouched.
	if err := r.burner.Debit(r.burnAs, caller, series.UnitPrice); err != nil {
		return nil, err
	}

	itemSeq := uint32(series.NextItem)
	series.NextItem++
	if err := r.st.KVPut(seriesStateKey(id), series); err != nil {
		return nil, err
	}
	encoded := EncodeItemID(id, itemSeq)
	if err := r.st.AddAssetBalance(caller, encoded, big.NewInt(1)); err != nil {
		return nil, err
	}
	r.emitter.Emit(events.CollectibleRedeemed{
		Holder:    caller,
		EncodedID: encoded,
		SeriesID:  uint64(id),
		ItemSeq:   uint64(itemSeq),
	})
	return &Minted{EncodedID: encoded, SeriesID: id, ItemSeq: itemSeq}, nil
}

// DetailsOf decodes an encoded asset identifier and returns the display view
// of the edition, including the derived metadata locator.
func (r *Registry) DetailsOf(encodedID uint64) (*TokenDetails, error) {
	seriesID, itemSeq := DecodeItemID(encodedID)
	series, ok, err := r.SeriesOf(seriesID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownToken
	}
	return &TokenDetails{
		SeriesID:        seriesID,
		ItemSeq:         itemSeq,
		Name:            series.Name,
		Edition:         itemSeq,
		MaxItems:        series.MaxItems,
		MetadataLocator: series.MetadataBase + metadataItemPath + strconv.FormatUint(uint64(itemSeq), 10),
	}, nil
}

// OwnedCollectiblesOf scans every created series and every minted edition
// within each, returning the subset the holder owns. The scan is linear in
// the total number of minted items across all series, which is acceptable for
// the bounded catalog sizes the registry targets.
func (r *Registry) OwnedCollectiblesOf(holder [20]byte) ([]Minted, error) {
	next, err := r.nextSequence()
	if err != nil {
		return nil, err
	}
	owned := []Minted{}
	for seriesID := FirstSeriesID; seriesID < next; seriesID++ {
		series, ok, err := r.SeriesOf(seriesID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for item := uint64(1); item < series.NextItem; item++ {
			encoded := EncodeItemID(seriesID, uint32(item))
			balance, err := r.st.AssetBalance(holder, encoded)
			if err != nil {
				return nil, err
			}
			if balance.Sign() > 0 {
				owned = append(owned, Minted{EncodedID: encoded, SeriesID: seriesID, ItemSeq: uint32(item)})
			}
		}
	}
	return owned, nil
}
