package summary

import (
	"testing"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
)

func TestForTowers(t *testing.T) {
	rows := []store.Row{
		{"tower_status": "Growing"},
		{"tower_status": "Clean", "has_maintenance": true},
		{"tower_status": "Partially Available"},
		{"tower_status": "Available", "has_maintenance": false},
	}

	s := ForTowers(rows)

	assert.Equal(t, Tower{Growing: 1, Clean: 1, Available: 2, Maintenance: 1}, s)
}

func TestForPest(t *testing.T) {
	rows := []store.Row{
		{"product_type": "Organic Insecticide", "omri_certified": true},
		{"product_type": "Biological Fungicide"},
		{"product_type": "Chemical"},
	}

	assert.Equal(t, Pest{Organic: 1, Biological: 1, Chemical: 1, OMRICertified: 1}, ForPest(rows))
}

func TestForMonitoring(t *testing.T) {
	rows := []store.Row{
		{"needs_attention": true, "read_at": "2024-05-01T10:00:00Z"},
		{"needs_attention": false, "read_at": nil},
		{"needs_attention": false, "read_at": "2024-05-01T10:00:00Z"},
	}

	assert.Equal(t, Monitoring{NeedsAttention: 1, GoodStatus: 2, NeverRead: 1}, ForMonitoring(rows))
}

func TestForLighting(t *testing.T) {
	rows := []store.Row{
		{"total_usage_hours": 10.0, "total_energy_used_kwh": 20.5, "total_cost": 3.25, "zones_active": int64(2)},
		{"total_usage_hours": "6.5", "total_energy_used_kwh": 1.0, "total_cost": 1.0, "zones_active": int64(3)},
	}

	s := ForLighting(rows)

	assert.Equal(t, Lighting{TotalHours: "16.5", TotalEnergy: "21.50", TotalCost: "4.25", AvgZones: "2.5"}, s)
}

func TestForLighting_Empty(t *testing.T) {
	assert.Equal(t, "0.0", ForLighting(nil).AvgZones)
}

func TestForSensors(t *testing.T) {
	latest := time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC)
	rows := []store.Row{
		{"sensor_name": "A", "reading_type": "temperature", "time": latest},
		{"sensor_name": "A", "reading_type": "humidity"},
		{"sensor_name": "B", "reading_type": "temperature"},
	}

	s := ForSensors(rows)

	assert.Equal(t, 2, s.UniqueSensors)
	assert.Equal(t, 2, s.ReadingTypes)
	assert.Equal(t, "2:30:05 PM", s.LatestReading)
	assert.Equal(t, "No readings", ForSensors(nil).LatestReading)
}

func TestForSpacers(t *testing.T) {
	rows := []store.Row{
		{"status": "Ready", "quantity": int64(4)},
		{"status": "growing", "quantity": int64(10)},
		{"status": "Available", "quantity": "3"},
		{"status": "Discarded", "quantity": int64(1)},
	}

	assert.Equal(t, Spacer{Ready: 4, Growing: 10, Available: 3, TotalQuantity: 18, TotalTrays: 4}, ForSpacers(rows))
}

func TestForPendingDeliveries(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	rows := []store.Row{
		{"customer_name": "Green Grocer", "customer_type": "Wholesale", "delivery_urgency": "Urgent", "expected_delivery_date": "2024-05-01"},
		{"customer_name": "Green Grocer", "customer_type": "Wholesale", "expected_delivery_date": "2024-05-20"},
		{"customer_name": "Jane", "customer_type": "Direct Consumer", "expected_delivery_date": "2024-05-09"},
		{"customer_name": "Corner Shop", "customer_type": "Retailer"},
	}

	s := ForPendingDeliveries(rows, now)

	assert.Equal(t, PendingDeliveries{
		TotalDeliveries:    4,
		UrgentDeliveries:   1,
		OverdueDeliveries:  2,
		WholesaleCustomers: 2,
		ConsumerCustomers:  1,
	}, s)
}

func TestForInventoryAging(t *testing.T) {
	rows := []store.Row{
		{"available_quantity": int64(5), "waste_risk_level": "High"},
		{"available_quantity": int64(3), "waste_risk_level": "medium"},
		{"available_quantity": int64(2), "waste_risk_level": "Low"},
		{"available_quantity": int64(1), "waste_risk_level": "high"},
	}

	assert.Equal(t, InventoryAging{TotalItems: 4, TotalQuantity: 11, HighRisk: 6, MediumRisk: 3, LowRisk: 2}, ForInventoryAging(rows))
}

func TestForHarvestPerformance(t *testing.T) {
	rows := []store.Row{
		{"total_harvested": int64(100), "delivery_rate_percent": 80.0, "waste_rate_percent": 5.0},
		{"total_harvested": int64(50), "delivery_rate_percent": 90.0, "waste_rate_percent": 10.0},
	}

	assert.Equal(t, HarvestPerformance{
		TotalHarvested:  150,
		AvgDeliveryRate: "85.0",
		AvgWasteRate:    "7.5",
		WeeksReported:   2,
	}, ForHarvestPerformance(rows))
}

func TestForDailyOperations(t *testing.T) {
	rows := []store.Row{
		{"harvest_batches": int64(2), "total_harvested": int64(40), "allocations_made": int64(3), "deliveries_completed": int64(1), "same_day_delivery_rate": 50.0},
		{"harvest_batches": int64(1), "total_harvested": int64(10), "allocations_made": int64(1), "deliveries_completed": int64(2), "same_day_delivery_rate": 100.0},
	}

	assert.Equal(t, DailyOperations{
		TotalDays:        2,
		TotalHarvests:    3,
		TotalHarvested:   50,
		TotalAllocations: 4,
		TotalDeliveries:  3,
		AvgSameDayRate:   "75.0",
	}, ForDailyOperations(rows))
}

func TestForCustomerDeliveries(t *testing.T) {
	rows := []store.Row{
		{"customer_type": "Wholesale", "completed_deliveries": int64(4), "pending_deliveries": int64(1), "total_quantity_delivered": int64(40), "completion_rate_percent": 80.0},
		{"customer_type": "Consumer", "completed_deliveries": int64(1), "pending_deliveries": int64(0), "total_quantity_delivered": int64(2), "completion_rate_percent": 100.0},
	}

	assert.Equal(t, CustomerDeliveries{
		TotalCustomers:         2,
		TotalCompleted:         5,
		TotalPending:           1,
		TotalQuantityDelivered: 42,
		AvgCompletionRate:      "90.0",
		WholesaleCustomers:     1,
		ConsumerCustomers:      1,
	}, ForCustomerDeliveries(rows))
}

func TestForAvailableHarvest(t *testing.T) {
	rows := []store.Row{
		{"plant_name": "Basil", "available_quantity": int64(5), "freshness_level": "very_fresh", "days_since_harvest": int64(1)},
		{"plant_name": "Basil", "available_quantity": int64(2), "freshness_level": "fresh", "days_since_harvest": int64(4)},
		{"plant_name": "Kale", "available_quantity": int64(3), "freshness_level": "fresh", "days_since_harvest": int64(4)},
	}

	assert.Equal(t, AvailableHarvest{
		TotalQuantity:       10,
		PlantTypes:          2,
		VeryFreshItems:      1,
		RegularFreshItems:   2,
		AvgDaysSinceHarvest: "3.0",
	}, ForAvailableHarvest(rows))
}

func TestForAllocationEfficiency_SkipsMissingDeliveryDays(t *testing.T) {
	rows := []store.Row{
		{"total_allocations": int64(10), "successful_deliveries": int64(8), "overdue_allocations": int64(1), "success_rate_percent": 80.0, "avg_days_to_delivery": 2.0},
		{"total_allocations": int64(5), "successful_deliveries": int64(5), "overdue_allocations": int64(0), "success_rate_percent": 100.0, "avg_days_to_delivery": nil},
	}

	assert.Equal(t, AllocationEfficiency{
		TotalWeeks:        2,
		TotalAllocations:  15,
		TotalSuccessful:   13,
		TotalOverdue:      1,
		AvgSuccessRate:    "90.0",
		AvgDaysToDelivery: "2.0",
	}, ForAllocationEfficiency(rows))
}

func TestForTasks(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	rows := []store.Row{
		{"status": "pending", "due_date": "2024-05-01", "assigned_to": "u1", "tower_id": int64(7)},
		{"status": "completed", "due_date": "2024-05-01", "is_recurring": true},
		{"status": "in_progress", "due_date": "2024-06-01", "assigned_to": "u2"},
	}

	assert.Equal(t, Tasks{
		TotalTasks:     3,
		Pending:        1,
		Completed:      1,
		Overdue:        1,
		Assigned:       2,
		Unassigned:     1,
		TowerTasks:     1,
		RecurringTasks: 1,
	}, ForTasks(rows, now))
}
