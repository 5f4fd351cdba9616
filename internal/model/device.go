package model

import "time"

type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "online"
	DeviceOffline DeviceStatus = "offline"
	DeviceInUse   DeviceStatus = "in_use"
)

type DeviceType string

const (
	DeviceTypeStandard DeviceType = "standard"
	DeviceTypeRespawn  DeviceType = "respawn"
	DeviceTypeMedicBox DeviceType = "medic-box"
)

func ValidDeviceType(t DeviceType) bool {
	switch t {
	case DeviceTypeStandard, DeviceTypeRespawn, DeviceTypeMedicBox:
		return true
	}
	return false
}

// Device is a catalog record for one wearable/field unit. GroupTag is the
// channel tag matched against group tags when building allocation pools.
type Device struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	Name      string       `json:"name" bson:"name"`
	Mac       string       `json:"mac" bson:"mac"`
	Status    DeviceStatus `json:"status" bson:"status"`
	Type      DeviceType   `json:"type" bson:"type"`
	GroupTag  string       `json:"groupTag,omitempty" bson:"groupTag,omitempty"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
}
