// Package p2p holds the peer-facing state the RPC layer manipulates. The
// ban list keeps manually banned subnets keyed by their canonical CIDR form.
package p2p

import (
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/florin-chain/florind/errors"
	"github.com/florin-chain/florind/ulogger"
	"github.com/florin-chain/florind/util"
)

// BanEntry is one manually banned subnet. Entries are immutable; updating a
// ban means removing and re-adding it.
type BanEntry struct {
	Subnet    *net.IPNet
	CreatedAt time.Time
	ExpiresAt time.Time
}

// BanListEntry is the serializable view of a BanEntry with the derived
// duration fields callers expect.
type BanListEntry struct {
	Address       string `json:"address"`
	BannedUntil   int64  `json:"banned_until"`
	BanCreated    int64  `json:"ban_created"`
	BanDuration   int64  `json:"ban_duration"`
	TimeRemaining int64  `json:"time_remaining"`
}

// BanList is the subnet ban registry. All operations are atomic under a
// single lock; expired entries stay listed until swept by IsBanned or
// removed explicitly.
type BanList struct {
	mu              sync.RWMutex
	logger          ulogger.Logger
	clock           util.Clock
	defaultDuration time.Duration
	entries         map[string]BanEntry
}

func NewBanList(logger ulogger.Logger, clock util.Clock, defaultDuration time.Duration) *BanList {
	if clock == nil {
		clock = util.SystemClock{}
	}

	if defaultDuration <= 0 {
		defaultDuration = 24 * time.Hour
	}

	return &BanList{
		logger:          logger,
		clock:           clock,
		defaultDuration: defaultDuration,
		entries:         make(map[string]BanEntry),
	}
}

// parseSubnet reduces an IP address or subnet to canonical CIDR form. The
// mask may be given as a prefix length or as a dotted/colon netmask; a bare
// address gets a full-length prefix. Ports are not allowed.
func parseSubnet(ipOrSubnet string) (*net.IPNet, error) {
	addr := ipOrSubnet
	maskPart := ""

	if idx := strings.IndexByte(ipOrSubnet, '/'); idx >= 0 {
		addr = ipOrSubnet[:idx]
		maskPart = ipOrSubnet[idx+1:]
	}

	ip := net.ParseIP(addr)
	if ip == nil {
		// net.ParseIP rejects host:port forms as well
		return nil, errors.NewInvalidParameterError("invalid IP or subnet: %s", ipOrSubnet)
	}

	bits := 8 * net.IPv6len
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		bits = 8 * net.IPv4len
	}

	var mask net.IPMask

	switch {
	case maskPart == "":
		mask = net.CIDRMask(bits, bits)
	case strings.IndexFunc(maskPart, func(r rune) bool { return r < '0' || r > '9' }) < 0:
		ones, err := strconv.Atoi(maskPart)
		if err != nil || ones < 0 || ones > bits {
			return nil, errors.NewInvalidParameterError("invalid IP or subnet: %s", ipOrSubnet)
		}

		mask = net.CIDRMask(ones, bits)
	default:
		maskIP := net.ParseIP(maskPart)
		if maskIP == nil {
			return nil, errors.NewInvalidParameterError("invalid IP or subnet: %s", ipOrSubnet)
		}

		if v4 := maskIP.To4(); v4 != nil && bits == 8*net.IPv4len {
			mask = net.IPMask(v4)
		} else if v4 == nil && bits == 8*net.IPv6len {
			mask = net.IPMask(maskIP.To16())
		} else {
			return nil, errors.NewInvalidParameterError("invalid IP or subnet: %s", ipOrSubnet)
		}

		if _, maskBits := mask.Size(); maskBits == 0 {
			// non-contiguous netmask
			return nil, errors.NewInvalidParameterError("invalid IP or subnet: %s", ipOrSubnet)
		}
	}

	return &net.IPNet{IP: ip.Mask(mask), Mask: mask}, nil
}

// Add bans a subnet. A zero duration applies the default ban window; with
// sinceEpoch the duration is taken as an absolute unix expiry. Adding a
// subnet whose range already falls inside an existing ban fails with a
// conflict, including re-adding the same subnet.
func (b *BanList) Add(ipOrSubnet string, durationSeconds int64, sinceEpoch bool) error {
	subnet, err := parseSubnet(ipOrSubnet)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	newOnes, _ := subnet.Mask.Size()

	for _, entry := range b.entries {
		existingOnes, existingBits := entry.Subnet.Mask.Size()

		newBits := 8 * net.IPv4len
		if subnet.IP.To4() == nil {
			newBits = 8 * net.IPv6len
		}

		if existingBits != newBits {
			continue
		}

		if entry.Subnet.Contains(subnet.IP) && existingOnes <= newOnes {
			return errors.NewConflictError("subnet already banned: %s", subnet.String())
		}
	}

	now := b.clock.Now()

	var expiresAt time.Time

	switch {
	case durationSeconds == 0:
		expiresAt = now.Add(b.defaultDuration)
	case sinceEpoch:
		expiresAt = time.Unix(durationSeconds, 0)
	default:
		expiresAt = now.Add(time.Duration(durationSeconds) * time.Second)
	}

	b.entries[subnet.String()] = BanEntry{
		Subnet:    subnet,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if b.logger != nil {
		b.logger.Infof("banned %s until %s", subnet.String(), expiresAt.UTC().Format(time.RFC3339))
	}

	return nil
}

// Remove unbans the exact subnet given. Removing a subnet that was never
// banned fails with not found, even if it falls inside a wider ban.
func (b *BanList) Remove(ipOrSubnet string) error {
	subnet, err := parseSubnet(ipOrSubnet)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := subnet.String()
	if _, ok := b.entries[key]; !ok {
		return errors.NewNotFoundError("subnet not banned: %s", key)
	}

	delete(b.entries, key)

	if b.logger != nil {
		b.logger.Infof("unbanned %s", key)
	}

	return nil
}

// ListEntries returns every ban, expired or not, sorted by address, with
// ban_duration and time_remaining derived at call time. time_remaining is
// negative for expired bans.
func (b *BanList) ListEntries() []BanListEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	now := b.clock.Now()

	result := make([]BanListEntry, 0, len(b.entries))
	for key, entry := range b.entries {
		result = append(result, BanListEntry{
			Address:       key,
			BannedUntil:   entry.ExpiresAt.Unix(),
			BanCreated:    entry.CreatedAt.Unix(),
			BanDuration:   int64(entry.ExpiresAt.Sub(entry.CreatedAt) / time.Second),
			TimeRemaining: int64(entry.ExpiresAt.Sub(now) / time.Second),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result
}

// Clear removes every entry unconditionally.
func (b *BanList) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = make(map[string]BanEntry)
}

// IsBanned reports whether ip falls inside any active ban. Expired entries
// encountered during the scan are swept.
func (b *BanList) IsBanned(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		if b.logger != nil {
			b.logger.Errorf("invalid IP address: %s", ipStr)
		}

		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	banned := false

	for key, entry := range b.entries {
		if now.After(entry.ExpiresAt) {
			delete(b.entries, key)
			continue
		}

		if entry.Subnet.Contains(ip) {
			banned = true
		}
	}

	return banned
}

// Len reports the number of entries, expired ones included.
func (b *BanList) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries)
}
