package internal

import (
	"testing"

	"ocpinode/entity/common"
	"ocpinode/entity/tariff"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPriceSurvivesBsonRoundTrip(t *testing.T) {
	registry := mongoRegistry()
	component := &tariff.PriceComponent{
		Type:     tariff.Energy,
		Price:    decimal.RequireFromString("0.30"),
		StepSize: 1,
	}
	data, err := bson.MarshalWithRegistry(registry, component)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	restored := &tariff.PriceComponent{}
	if err = bson.UnmarshalWithRegistry(registry, data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !restored.Price.Equal(component.Price) {
		t.Errorf("price lost in bson round trip: stored %s, restored %s", component.Price, restored.Price)
	}
	if restored.Type != tariff.Energy || restored.StepSize != 1 {
		t.Errorf("sibling fields lost: %+v", restored)
	}
}

func TestVolumeSurvivesBsonRoundTrip(t *testing.T) {
	registry := mongoRegistry()
	dimension := &common.CdrDimension{
		Type:   common.DimensionEnergy,
		Volume: decimal.RequireFromString("7.125"),
	}
	data, err := bson.MarshalWithRegistry(registry, dimension)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	restored := &common.CdrDimension{}
	if err = bson.UnmarshalWithRegistry(registry, data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !restored.Volume.Equal(dimension.Volume) {
		t.Errorf("volume lost in bson round trip: stored %s, restored %s", dimension.Volume, restored.Volume)
	}
}

func TestOptionalDecimalSurvivesBsonRoundTrip(t *testing.T) {
	registry := mongoRegistry()
	parking := decimal.RequireFromString("0.5")
	record := struct {
		TotalCost        decimal.Decimal  `bson:"total_cost"`
		TotalParkingTime *decimal.Decimal `bson:"total_parking_time,omitempty"`
	}{
		TotalCost:        decimal.RequireFromString("3.20"),
		TotalParkingTime: &parking,
	}
	data, err := bson.MarshalWithRegistry(registry, record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	restored := struct {
		TotalCost        decimal.Decimal  `bson:"total_cost"`
		TotalParkingTime *decimal.Decimal `bson:"total_parking_time,omitempty"`
	}{}
	if err = bson.UnmarshalWithRegistry(registry, data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !restored.TotalCost.Equal(record.TotalCost) {
		t.Errorf("total cost lost: stored %s, restored %s", record.TotalCost, restored.TotalCost)
	}
	if restored.TotalParkingTime == nil || !restored.TotalParkingTime.Equal(parking) {
		t.Errorf("optional decimal lost: %v", restored.TotalParkingTime)
	}
}
