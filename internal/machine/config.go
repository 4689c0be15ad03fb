package machine

import "strconv"

// ConfigValueKind discriminates the tagged ConfigValue variants.
type ConfigValueKind uint8

const (
	ConfigString ConfigValueKind = iota
	ConfigInteger
	ConfigBoolean
)

// ConfigValue is a tagged union of the three config primitive types,
// with the typed accessor methods original_source/frontbox/src/machine/
// config_value.rs provides (supplemented per SPEC_FULL.md §4 so System
// authors don't re-derive type assertions at every call site).
type ConfigValue struct {
	kind ConfigValueKind
	s    string
	i    int64
	b    bool
}

func NewStringValue(v string) ConfigValue  { return ConfigValue{kind: ConfigString, s: v} }
func NewIntegerValue(v int64) ConfigValue  { return ConfigValue{kind: ConfigInteger, i: v} }
func NewBooleanValue(v bool) ConfigValue   { return ConfigValue{kind: ConfigBoolean, b: v} }

func (v ConfigValue) Kind() ConfigValueKind { return v.kind }

func (v ConfigValue) AsString() string {
	switch v.kind {
	case ConfigString:
		return v.s
	case ConfigInteger:
		return strconv.FormatInt(v.i, 10)
	case ConfigBoolean:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v ConfigValue) AsInteger() int64 {
	if v.kind == ConfigInteger {
		return v.i
	}
	if v.kind == ConfigBoolean && v.b {
		return 1
	}
	n, _ := strconv.ParseInt(v.s, 10, 64)
	return n
}

func (v ConfigValue) AsUsize() uint64  { return uint64(v.AsInteger()) }
func (v ConfigValue) AsU64() uint64    { return uint64(v.AsInteger()) }
func (v ConfigValue) AsU32() uint32    { return uint32(v.AsInteger()) }
func (v ConfigValue) AsU16() uint16    { return uint16(v.AsInteger()) }
func (v ConfigValue) AsU8() uint8      { return uint8(v.AsInteger()) }

func (v ConfigValue) AsBoolean() bool {
	switch v.kind {
	case ConfigBoolean:
		return v.b
	case ConfigInteger:
		return v.i != 0
	default:
		return v.s == "true"
	}
}

// ConfigItem describes one configuration entry: its current/default
// values plus validation metadata (an option list for strings, or a
// min/max range for integers).
type ConfigItem struct {
	Name        string
	Description string
	Current     ConfigValue
	Default     ConfigValue
	Options     []string // valid only when Current.Kind() == ConfigString
	Min, Max    int64    // valid only when Current.Kind() == ConfigInteger
}

// MachineConfig is the ordered mapping of well-known keys to ConfigItems.
// Go has no ordered-map literal the way the Rust source's IndexMap does,
// so order is tracked explicitly via `keys`.
type MachineConfig struct {
	items map[string]*ConfigItem
	keys  []string
}

// NewMachineConfig builds the default configuration: watchdog.tick_ms
// (default 1000, [100,5000]) and system.timer_tick_ms (default 50,
// [1,5000]), per spec.md §3.
func NewMachineConfig() *MachineConfig {
	cfg := &MachineConfig{items: map[string]*ConfigItem{}}
	cfg.define(ConfigItem{
		Name:        "watchdog.tick_ms",
		Description: "Interval between watchdog keep-alive sends",
		Current:     NewIntegerValue(1000),
		Default:     NewIntegerValue(1000),
		Min:         100,
		Max:         5000,
	})
	cfg.define(ConfigItem{
		Name:        "system.timer_tick_ms",
		Description: "Interval between SystemTick ticks",
		Current:     NewIntegerValue(50),
		Default:     NewIntegerValue(50),
		Min:         1,
		Max:         5000,
	})
	return cfg
}

func (c *MachineConfig) define(item ConfigItem) {
	it := item
	c.items[item.Name] = &it
	c.keys = append(c.keys, item.Name)
}

// GetValue returns the current value for key, if defined.
func (c *MachineConfig) GetValue(key string) (ConfigValue, bool) {
	item, ok := c.items[key]
	if !ok {
		return ConfigValue{}, false
	}
	return item.Current, true
}

// SetValue overwrites key's current value, clamping integers to their
// declared [Min,Max] range.
func (c *MachineConfig) SetValue(key string, value ConfigValue) bool {
	item, ok := c.items[key]
	if !ok {
		return false
	}
	if item.Current.Kind() == ConfigInteger && value.Kind() == ConfigInteger {
		v := value.AsInteger()
		if v < item.Min {
			v = item.Min
		}
		if v > item.Max {
			v = item.Max
		}
		value = NewIntegerValue(v)
	}
	item.Current = value
	return true
}

// Item returns the full ConfigItem for key.
func (c *MachineConfig) Item(key string) (ConfigItem, bool) {
	item, ok := c.items[key]
	if !ok {
		return ConfigItem{}, false
	}
	return *item, true
}

// Keys returns config keys in definition order.
func (c *MachineConfig) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}
