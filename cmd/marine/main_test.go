package main

import (
	"encoding/json"
	"testing"
)

const positionReportMsg = `{
  "MessageType": "PositionReport",
  "MetaData": {
    "MMSI": 244660920,
    "ShipName": "EEMSLIFT NELLI   ",
    "ShipType": 70,
    "time_utc": "2026-08-28 11:04:05.123456789 +0000 UTC"
  },
  "Message": {
    "PositionReport": {
      "Latitude": 53.32,
      "Longitude": 6.93,
      "Cog": 211.4,
      "Sog": 9.8,
      "TrueHeading": 210
    }
  }
}`

func TestVesselFromEnvelope(t *testing.T) {
	var env streamEnvelope
	if err := json.Unmarshal([]byte(positionReportMsg), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}

	v := vesselFromEnvelope(&env)

	if v.MMSI != 244660920 {
		t.Errorf("expected MMSI 244660920, got %d", v.MMSI)
	}
	if v.Name != "EEMSLIFT NELLI" {
		t.Errorf("expected trimmed ship name, got %q", v.Name)
	}
	if v.ShipType != 70 {
		t.Errorf("expected ship type 70, got %d", v.ShipType)
	}
	if v.Latitude != 53.32 || v.Longitude != 6.93 {
		t.Errorf("unexpected position: %g,%g", v.Latitude, v.Longitude)
	}
	if v.Heading != 210 || v.Cog != 211.4 || v.Sog != 9.8 {
		t.Errorf("unexpected kinematics: heading=%g cog=%g sog=%g", v.Heading, v.Cog, v.Sog)
	}
}

func TestVesselFromEnvelope_MissingMetadataDefaults(t *testing.T) {
	var env streamEnvelope
	if err := json.Unmarshal([]byte(`{"MessageType":"PositionReport","MetaData":{"MMSI":1}}`), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}

	v := vesselFromEnvelope(&env)
	if v.Name != "" {
		t.Errorf("expected empty name, got %q", v.Name)
	}
	if v.ShipType != 0 {
		t.Errorf("expected zero ship type, got %d", v.ShipType)
	}
}
