package redisstore

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"smart-home-agent/internal/domain"
)

// Customer records are stored as CBOR with core deterministic encoding,
// so an unchanged record always encodes to the same bytes.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("redisstore: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("redisstore: CBOR decoder initialization failed: " + err.Error())
	}
}

type record struct {
	ID      string         `cbor:"id"`
	Tier    string         `cbor:"tier"`
	Devices []deviceRecord `cbor:"devices"`
}

type deviceRecord struct {
	ID       string  `cbor:"id"`
	Type     string  `cbor:"type"`
	Location string  `cbor:"location,omitempty"`
	Power    string  `cbor:"power"`
	Volume   *int    `cbor:"volume,omitempty"`
	Media    *string `cbor:"media,omitempty"`
}

func encodeCustomer(c *domain.Customer) ([]byte, error) {
	rec := record{ID: c.ID, Tier: string(c.Tier), Devices: make([]deviceRecord, len(c.Devices))}
	for i, d := range c.Devices {
		rec.Devices[i] = deviceRecord{
			ID:       d.ID,
			Type:     string(d.Type),
			Location: d.Location,
			Power:    string(d.Attributes.Power),
			Volume:   d.Attributes.Volume,
			Media:    d.Attributes.Media,
		}
	}
	return encMode.Marshal(rec)
}

func decodeCustomer(data []byte) (*domain.Customer, error) {
	var rec record
	if err := decMode.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	c := &domain.Customer{
		ID:      rec.ID,
		Tier:    domain.ParseTier(rec.Tier),
		Devices: make([]domain.Device, len(rec.Devices)),
	}
	for i, d := range rec.Devices {
		c.Devices[i] = domain.Device{
			ID:       d.ID,
			Type:     domain.DeviceType(d.Type),
			Location: d.Location,
			Attributes: domain.Attributes{
				Power:  domain.PowerState(d.Power),
				Volume: d.Volume,
				Media:  d.Media,
			},
		}
	}
	return c, nil
}
