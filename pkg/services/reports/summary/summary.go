// Package summary computes the per-report aggregates shown above each table
// and returned in report metadata.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/store"
)

type Tower struct {
	Growing     int `json:"growing" yaml:"growing"`
	Clean       int `json:"clean" yaml:"clean"`
	Available   int `json:"available" yaml:"available"`
	Maintenance int `json:"maintenance" yaml:"maintenance"`
}

func ForTowers(rows []store.Row) Tower {
	var s Tower
	for _, r := range rows {
		status := strings.ToLower(r.Str("tower_status"))
		switch {
		case status == "growing":
			s.Growing++
		case status == "clean":
			s.Clean++
		}
		if strings.Contains(status, "available") {
			s.Available++
		}
		if r.Bool("has_maintenance") {
			s.Maintenance++
		}
	}
	return s
}

type Pest struct {
	Organic       int `json:"organic" yaml:"organic"`
	Biological    int `json:"biological" yaml:"biological"`
	Chemical      int `json:"chemical" yaml:"chemical"`
	OMRICertified int `json:"omriCertified" yaml:"omriCertified"`
}

func ForPest(rows []store.Row) Pest {
	var s Pest
	for _, r := range rows {
		kind := strings.ToLower(r.Str("product_type"))
		if strings.Contains(kind, "organic") {
			s.Organic++
		}
		if strings.Contains(kind, "biological") {
			s.Biological++
		}
		if strings.Contains(kind, "chemical") {
			s.Chemical++
		}
		if r.Bool("omri_certified") {
			s.OMRICertified++
		}
	}
	return s
}

type Monitoring struct {
	NeedsAttention int `json:"needsAttention" yaml:"needsAttention"`
	GoodStatus     int `json:"goodStatus" yaml:"goodStatus"`
	NeverRead      int `json:"neverRead" yaml:"neverRead"`
}

func ForMonitoring(rows []store.Row) Monitoring {
	var s Monitoring
	for _, r := range rows {
		if r.Bool("needs_attention") {
			s.NeedsAttention++
		} else {
			s.GoodStatus++
		}
		if !r.Has("read_at") {
			s.NeverRead++
		}
	}
	return s
}

type Lighting struct {
	TotalHours  string `json:"totalHours" yaml:"totalHours"`
	TotalEnergy string `json:"totalEnergy" yaml:"totalEnergy"`
	TotalCost   string `json:"totalCost" yaml:"totalCost"`
	AvgZones    string `json:"avgZones" yaml:"avgZones"`
}

func ForLighting(rows []store.Row) Lighting {
	var hours, energy, cost, zones float64
	for _, r := range rows {
		hours += num(r, "total_usage_hours")
		energy += num(r, "total_energy_used_kwh")
		cost += num(r, "total_cost")
		zones += num(r, "zones_active")
	}
	return Lighting{
		TotalHours:  fmt.Sprintf("%.1f", hours),
		TotalEnergy: fmt.Sprintf("%.2f", energy),
		TotalCost:   fmt.Sprintf("%.2f", cost),
		AvgZones:    fmt.Sprintf("%.1f", avg(zones, len(rows))),
	}
}

type Sensor struct {
	UniqueSensors int    `json:"uniqueSensors" yaml:"uniqueSensors"`
	ReadingTypes  int    `json:"readingTypes" yaml:"readingTypes"`
	LatestReading string `json:"latestReading" yaml:"latestReading"`
}

// ForSensors expects rows newest first.
func ForSensors(rows []store.Row) Sensor {
	sensors := map[string]struct{}{}
	kinds := map[string]struct{}{}
	for _, r := range rows {
		sensors[r.Str("sensor_name")] = struct{}{}
		kinds[r.Str("reading_type")] = struct{}{}
	}
	s := Sensor{UniqueSensors: len(sensors), ReadingTypes: len(kinds), LatestReading: "No readings"}
	if len(rows) > 0 {
		if t, ok := rows[0].Time("time"); ok {
			s.LatestReading = t.Format("3:04:05 PM")
		}
	}
	return s
}

type Spacer struct {
	Ready         int64 `json:"ready" yaml:"ready"`
	Growing       int64 `json:"growing" yaml:"growing"`
	Available     int64 `json:"available" yaml:"available"`
	TotalQuantity int64 `json:"totalQuantity" yaml:"totalQuantity"`
	TotalTrays    int   `json:"totalTrays" yaml:"totalTrays"`
}

// ForSpacers sums tray quantities per status.
func ForSpacers(rows []store.Row) Spacer {
	s := Spacer{TotalTrays: len(rows)}
	for _, r := range rows {
		qty := r.Int("quantity")
		s.TotalQuantity += qty
		switch strings.ToLower(r.Str("status")) {
		case "ready":
			s.Ready += qty
		case "growing":
			s.Growing += qty
		case "available":
			s.Available += qty
		}
	}
	return s
}

type PendingDeliveries struct {
	TotalDeliveries    int `json:"totalDeliveries" yaml:"totalDeliveries"`
	UrgentDeliveries   int `json:"urgentDeliveries" yaml:"urgentDeliveries"`
	OverdueDeliveries  int `json:"overdueDeliveries" yaml:"overdueDeliveries"`
	WholesaleCustomers int `json:"wholesaleCustomers" yaml:"wholesaleCustomers"`
	ConsumerCustomers  int `json:"consumerCustomers" yaml:"consumerCustomers"`
}

// ForPendingDeliveries counts each customer once per customer type.
func ForPendingDeliveries(rows []store.Row, now time.Time) PendingDeliveries {
	s := PendingDeliveries{TotalDeliveries: len(rows)}
	seen := map[string]struct{}{}
	for _, r := range rows {
		if strings.EqualFold(r.Str("delivery_urgency"), "urgent") {
			s.UrgentDeliveries++
		}
		if due, ok := r.Time("expected_delivery_date"); ok && due.Before(now) {
			s.OverdueDeliveries++
		}

		key := r.Str("customer_name") + "_" + r.Str("customer_type")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		switch kind := strings.ToLower(r.Str("customer_type")); {
		case strings.Contains(kind, "wholesale"), strings.Contains(kind, "retailer"):
			s.WholesaleCustomers++
		case strings.Contains(kind, "consumer"), strings.Contains(kind, "direct"):
			s.ConsumerCustomers++
		}
	}
	return s
}

type InventoryAging struct {
	TotalItems    int   `json:"totalItems" yaml:"totalItems"`
	TotalQuantity int64 `json:"totalQuantity" yaml:"totalQuantity"`
	HighRisk      int64 `json:"highRisk" yaml:"highRisk"`
	MediumRisk    int64 `json:"mediumRisk" yaml:"mediumRisk"`
	LowRisk       int64 `json:"lowRisk" yaml:"lowRisk"`
}

func ForInventoryAging(rows []store.Row) InventoryAging {
	s := InventoryAging{TotalItems: len(rows)}
	for _, r := range rows {
		qty := r.Int("available_quantity")
		s.TotalQuantity += qty
		switch risk := strings.ToLower(r.Str("waste_risk_level")); {
		case strings.Contains(risk, "high"):
			s.HighRisk += qty
		case strings.Contains(risk, "medium"):
			s.MediumRisk += qty
		case strings.Contains(risk, "low"):
			s.LowRisk += qty
		}
	}
	return s
}

type HarvestPerformance struct {
	TotalHarvested  int64  `json:"totalHarvested" yaml:"totalHarvested"`
	AvgDeliveryRate string `json:"avgDeliveryRate" yaml:"avgDeliveryRate"`
	AvgWasteRate    string `json:"avgWasteRate" yaml:"avgWasteRate"`
	WeeksReported   int    `json:"weeksReported" yaml:"weeksReported"`
}

func ForHarvestPerformance(rows []store.Row) HarvestPerformance {
	var delivery, waste float64
	s := HarvestPerformance{WeeksReported: len(rows)}
	for _, r := range rows {
		s.TotalHarvested += r.Int("total_harvested")
		delivery += num(r, "delivery_rate_percent")
		waste += num(r, "waste_rate_percent")
	}
	s.AvgDeliveryRate = fmt.Sprintf("%.1f", avg(delivery, len(rows)))
	s.AvgWasteRate = fmt.Sprintf("%.1f", avg(waste, len(rows)))
	return s
}

type DailyOperations struct {
	TotalDays        int    `json:"totalDays" yaml:"totalDays"`
	TotalHarvests    int64  `json:"totalHarvests" yaml:"totalHarvests"`
	TotalHarvested   int64  `json:"totalHarvested" yaml:"totalHarvested"`
	TotalAllocations int64  `json:"totalAllocations" yaml:"totalAllocations"`
	TotalDeliveries  int64  `json:"totalDeliveries" yaml:"totalDeliveries"`
	AvgSameDayRate   string `json:"avgSameDayRate" yaml:"avgSameDayRate"`
}

func ForDailyOperations(rows []store.Row) DailyOperations {
	var sameDay float64
	s := DailyOperations{TotalDays: len(rows)}
	for _, r := range rows {
		s.TotalHarvests += r.Int("harvest_batches")
		s.TotalHarvested += r.Int("total_harvested")
		s.TotalAllocations += r.Int("allocations_made")
		s.TotalDeliveries += r.Int("deliveries_completed")
		sameDay += num(r, "same_day_delivery_rate")
	}
	s.AvgSameDayRate = fmt.Sprintf("%.1f", avg(sameDay, len(rows)))
	return s
}

type CustomerDeliveries struct {
	TotalCustomers         int    `json:"totalCustomers" yaml:"totalCustomers"`
	TotalCompleted         int64  `json:"totalCompleted" yaml:"totalCompleted"`
	TotalPending           int64  `json:"totalPending" yaml:"totalPending"`
	TotalQuantityDelivered int64  `json:"totalQuantityDelivered" yaml:"totalQuantityDelivered"`
	AvgCompletionRate      string `json:"avgCompletionRate" yaml:"avgCompletionRate"`
	WholesaleCustomers     int    `json:"wholesaleCustomers" yaml:"wholesaleCustomers"`
	ConsumerCustomers      int    `json:"consumerCustomers" yaml:"consumerCustomers"`
}

func ForCustomerDeliveries(rows []store.Row) CustomerDeliveries {
	var completion float64
	s := CustomerDeliveries{TotalCustomers: len(rows)}
	for _, r := range rows {
		s.TotalCompleted += r.Int("completed_deliveries")
		s.TotalPending += r.Int("pending_deliveries")
		s.TotalQuantityDelivered += r.Int("total_quantity_delivered")
		completion += num(r, "completion_rate_percent")

		switch kind := strings.ToLower(r.Str("customer_type")); {
		case strings.Contains(kind, "wholesale"), strings.Contains(kind, "retailer"):
			s.WholesaleCustomers++
		case strings.Contains(kind, "consumer"), strings.Contains(kind, "direct"):
			s.ConsumerCustomers++
		}
	}
	s.AvgCompletionRate = fmt.Sprintf("%.1f", avg(completion, len(rows)))
	return s
}

type AvailableHarvest struct {
	TotalQuantity       int64  `json:"totalQuantity" yaml:"totalQuantity"`
	PlantTypes          int    `json:"plantTypes" yaml:"plantTypes"`
	VeryFreshItems      int    `json:"veryFreshItems" yaml:"veryFreshItems"`
	RegularFreshItems   int    `json:"regularFreshItems" yaml:"regularFreshItems"`
	AvgDaysSinceHarvest string `json:"avgDaysSinceHarvest" yaml:"avgDaysSinceHarvest"`
}

func ForAvailableHarvest(rows []store.Row) AvailableHarvest {
	var days float64
	plants := map[string]struct{}{}
	var s AvailableHarvest
	for _, r := range rows {
		s.TotalQuantity += r.Int("available_quantity")
		plants[r.Str("plant_name")] = struct{}{}
		if strings.EqualFold(r.Str("freshness_level"), "very_fresh") {
			s.VeryFreshItems++
		} else {
			s.RegularFreshItems++
		}
		days += float64(r.Int("days_since_harvest"))
	}
	s.PlantTypes = len(plants)
	s.AvgDaysSinceHarvest = fmt.Sprintf("%.1f", avg(days, len(rows)))
	return s
}

type AllocationEfficiency struct {
	TotalWeeks        int    `json:"totalWeeks" yaml:"totalWeeks"`
	TotalAllocations  int64  `json:"totalAllocations" yaml:"totalAllocations"`
	TotalSuccessful   int64  `json:"totalSuccessful" yaml:"totalSuccessful"`
	TotalOverdue      int64  `json:"totalOverdue" yaml:"totalOverdue"`
	AvgSuccessRate    string `json:"avgSuccessRate" yaml:"avgSuccessRate"`
	AvgDaysToDelivery string `json:"avgDaysToDelivery" yaml:"avgDaysToDelivery"`
}

// ForAllocationEfficiency averages delivery days only over weeks that report them.
func ForAllocationEfficiency(rows []store.Row) AllocationEfficiency {
	var success, days float64
	var withDays int
	s := AllocationEfficiency{TotalWeeks: len(rows)}
	for _, r := range rows {
		s.TotalAllocations += r.Int("total_allocations")
		s.TotalSuccessful += r.Int("successful_deliveries")
		s.TotalOverdue += r.Int("overdue_allocations")
		success += num(r, "success_rate_percent")
		if d, ok := r.Float("avg_days_to_delivery"); ok {
			days += d
			withDays++
		}
	}
	s.AvgSuccessRate = fmt.Sprintf("%.1f", avg(success, len(rows)))
	s.AvgDaysToDelivery = fmt.Sprintf("%.1f", avg(days, withDays))
	return s
}

type Tasks struct {
	TotalTasks     int `json:"totalTasks" yaml:"totalTasks"`
	Pending        int `json:"pending" yaml:"pending"`
	Completed      int `json:"completed" yaml:"completed"`
	Overdue        int `json:"overdue" yaml:"overdue"`
	Assigned       int `json:"assigned" yaml:"assigned"`
	Unassigned     int `json:"unassigned" yaml:"unassigned"`
	TowerTasks     int `json:"towerTasks" yaml:"towerTasks"`
	RecurringTasks int `json:"recurringTasks" yaml:"recurringTasks"`
}

func ForTasks(rows []store.Row, now time.Time) Tasks {
	s := Tasks{TotalTasks: len(rows)}
	for _, r := range rows {
		status := strings.ToLower(r.Str("status"))
		switch status {
		case "pending":
			s.Pending++
		case "completed":
			s.Completed++
		}
		if due, ok := r.Time("due_date"); ok && due.Before(now) && status != "completed" {
			s.Overdue++
		}
		if r.Has("assigned_to") {
			s.Assigned++
		} else {
			s.Unassigned++
		}
		if r.Has("tower_id") {
			s.TowerTasks++
		}
		if r.Bool("is_recurring") {
			s.RecurringTasks++
		}
	}
	return s
}

func num(r store.Row, col string) float64 {
	f, _ := r.Float(col)
	return f
}

func avg(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
