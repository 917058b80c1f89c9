package events

const (
	// TypeCollectibleSeriesCreated is emitted when the organizer registers a
	// new collectible series.
	TypeCollectibleSeriesCreated = "collectible.series.created"
	// TypeCollectibleSeriesUpdated is emitted when a series' active flag is
	// toggled.
	TypeCollectibleSeriesUpdated = "collectible.series.updated"
	// TypeCollectibleRedeemed is emitted when a holder mints an edition out
	// of a series.
	TypeCollectibleRedeemed = "collectible.redeemed"
)

// CollectibleSeriesCreated captures the key metadata of a new series.
type CollectibleSeriesCreated struct {
	SeriesID uint64
	Name     string
	MaxItems uint64
}

// EventType implements the Event interface.
func (CollectibleSeriesCreated) EventType() string { return TypeCollectibleSeriesCreated }

// Attributes implements the Event interface.
func (e CollectibleSeriesCreated) Attributes() map[string]string {
	return map[string]string{
		"seriesId": uintAttr(e.SeriesID),
		"name":     e.Name,
		"maxItems": uintAttr(e.MaxItems),
	}
}

// CollectibleSeriesUpdated captures an active flag toggle on a series.
type CollectibleSeriesUpdated struct {
	SeriesID uint64
	Active   bool
}

// EventType implements the Event interface.
func (CollectibleSeriesUpdated) EventType() string { return TypeCollectibleSeriesUpdated }

// Attributes implements the Event interface.
func (e CollectibleSeriesUpdated) Attributes() map[string]string {
	return map[string]string{
		"seriesId": uintAttr(e.SeriesID),
		"active":   boolAttr(e.Active),
	}
}

// CollectibleRedeemed captures a minted edition and its encoded asset
// identifier.
type CollectibleRedeemed struct {
	Holder    [20]byte
	EncodedID uint64
	SeriesID  uint64
	ItemSeq   uint64
}

// EventType implements the Event interface.
func (CollectibleRedeemed) EventType() string { return TypeCollectibleRedeemed }

// Attributes implements the Event interface.
func (e CollectibleRedeemed) Attributes() map[string]string {
	return map[string]string{
		"holder":    addressAttr(e.Holder),
		"encodedId": uintAttr(e.EncodedID),
		"seriesId":  uintAttr(e.SeriesID),
		"itemSeq":   uintAttr(e.ItemSeq),
	}
}
