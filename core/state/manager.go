package state

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"encorechain/storage"
)

// Manager provides typed access to the ledger's persistent state. All keys are
// hashed with keccak256 before hitting the underlying store and all values are
// RLP encoded, matching the fixed-width, deterministic layout the modules
// depend on.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	rewardBalancePrefix = []byte("reward:balance:")
	nativeBalancePrefix = []byte("native:balance:")
	assetBalancePrefix  = []byte("asset:balance:")
	pausePrefix         = []byte("pause:")
	ownerKey            = []byte("ledger:owner")
	organizerKey        = []byte("ledger:organizer")
)

func hashedKey(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	buf := make([]byte, 0, size)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return ethcrypto.Keccak256(buf)
}

func assetBalanceKey(addr [20]byte, assetID uint64) []byte {
	return hashedKey(assetBalancePrefix, []byte(strconv.FormatUint(assetID, 10)), []byte(":"), addr[:])
}

func (m *Manager) get(key []byte) ([]byte, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

// --- Generic KV helpers used by the native modules ---

// KVPut stores the provided value under the supplied key using RLP encoding.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(hashedKey(key), encoded)
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. The boolean return value indicates whether the key
// existed in state.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	data, err := m.get(hashedKey(key))
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// --- Balance ledgers ---

func (m *Manager) balance(key []byte) (*big.Int, error) {
	data, err := m.get(key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return big.NewInt(0), nil
	}
	amount := new(big.Int)
	if err := rlp.DecodeBytes(data, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

func (m *Manager) setBalance(key []byte, amount *big.Int) error {
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("negative balance not allowed")
	}
	encoded, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return err
	}
	return m.db.Put(key, encoded)
}

// RewardBalance retrieves the reward token balance for the provided holder.
// Unwritten balances read as zero.
func (m *Manager) RewardBalance(addr [20]byte) (*big.Int, error) {
	return m.balance(hashedKey(rewardBalancePrefix, addr[:]))
}

// SetRewardBalance stores the reward token balance for the provided holder.
func (m *Manager) SetRewardBalance(addr [20]byte, amount *big.Int) error {
	return m.setBalance(hashedKey(rewardBalancePrefix, addr[:]), amount)
}

// NativeBalance retrieves the native currency balance for the provided
// account. Only the pass-sale withdrawal path mutates native balances.
func (m *Manager) NativeBalance(addr [20]byte) (*big.Int, error) {
	return m.balance(hashedKey(nativeBalancePrefix, addr[:]))
}

// SetNativeBalance stores the native currency balance for the provided
// account.
func (m *Manager) SetNativeBalance(addr [20]byte, amount *big.Int) error {
	return m.setBalance(hashedKey(nativeBalancePrefix, addr[:]), amount)
}

// AssetBalance retrieves the number of units of the given asset identifier
// held by the account. Asset identifiers cover both pass tiers and encoded
// collectible items.
func (m *Manager) AssetBalance(addr [20]byte, assetID uint64) (*big.Int, error) {
	return m.balance(assetBalanceKey(addr, assetID))
}

// SetAssetBalance stores the held quantity for the (holder, asset) pair.
func (m *Manager) SetAssetBalance(addr [20]byte, assetID uint64, amount *big.Int) error {
	return m.setBalance(assetBalanceKey(addr, assetID), amount)
}

// AddAssetBalance grants additional units of an asset to the holder.
func (m *Manager) AddAssetBalance(addr [20]byte, assetID uint64, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("asset grant must be positive")
	}
	current, err := m.AssetBalance(addr, assetID)
	if err != nil {
		return err
	}
	return m.SetAssetBalance(addr, assetID, new(big.Int).Add(current, amount))
}

// --- Authorities ---

func (m *Manager) authority(key []byte) ([20]byte, bool, error) {
	var out [20]byte
	data, err := m.get(hashedKey(key))
	if err != nil {
		return out, false, err
	}
	if len(data) == 0 {
		return out, false, nil
	}
	var raw []byte
	if err := rlp.DecodeBytes(data, &raw); err != nil {
		return out, false, err
	}
	if len(raw) != 20 {
		return out, false, fmt.Errorf("malformed authority record")
	}
	copy(out[:], raw)
	return out, true, nil
}

func (m *Manager) setAuthority(key []byte, addr [20]byte) error {
	encoded, err := rlp.EncodeToBytes(addr[:])
	if err != nil {
		return err
	}
	return m.db.Put(hashedKey(key), encoded)
}

// Owner returns the owning authority, if one has been set.
func (m *Manager) Owner() ([20]byte, bool, error) {
	return m.authority(ownerKey)
}

// SetOwner stores the owning authority.
func (m *Manager) SetOwner(addr [20]byte) error {
	return m.setAuthority(ownerKey, addr)
}

// Organizer returns the organizing authority, if one has been set.
func (m *Manager) Organizer() ([20]byte, bool, error) {
	return m.authority(organizerKey)
}

// SetOrganizer stores the organizing authority.
func (m *Manager) SetOrganizer(addr [20]byte) error {
	return m.setAuthority(organizerKey, addr)
}

// IsOwner reports whether the address matches the stored owning authority.
// Read failures report false, matching the best-effort semantics the guard
// call sites require.
func (m *Manager) IsOwner(addr [20]byte) bool {
	owner, ok, err := m.Owner()
	if err != nil || !ok {
		return false
	}
	return owner == addr
}

// IsOrganizer reports whether the address matches the stored organizing
// authority.
func (m *Manager) IsOrganizer(addr [20]byte) bool {
	organizer, ok, err := m.Organizer()
	if err != nil || !ok {
		return false
	}
	return organizer == addr
}

// --- Module pauses ---

// SetModulePaused stores the pause flag for a module name.
func (m *Manager) SetModulePaused(module string, paused bool) error {
	if module == "" {
		return fmt.Errorf("module name must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(paused)
	if err != nil {
		return err
	}
	return m.db.Put(hashedKey(pausePrefix, []byte(module)), encoded)
}

// IsPaused reports whether the module has been administratively paused. It
// satisfies the native/common PauseView interface.
func (m *Manager) IsPaused(module string) bool {
	data, err := m.get(hashedKey(pausePrefix, []byte(module)))
	if err != nil || len(data) == 0 {
		return false
	}
	var paused bool
	if err := rlp.DecodeBytes(data, &paused); err != nil {
		return false
	}
	return paused
}
