package schema

import (
	"fmt"
	"strings"
)

type Column struct {
	Name string
	Type string
}

// Relation mirrors one of the reporting views exposed by the farm database.
// Locally (duckdb, sqlite) the views are materialised as plain tables.
type Relation struct {
	Name    string
	Columns []Column
}

func (r Relation) DDL() string {
	defs := make([]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		defs = append(defs, fmt.Sprintf("\t%s %s", c.Name, c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);", r.Name, strings.Join(defs, ",\n"))
}

func farmScoped(name string, cols ...Column) Relation {
	return Relation{Name: name, Columns: append([]Column{{"farm_id", "BIGINT NOT NULL"}}, cols...)}
}

func text(name string) Column { return Column{name, "VARCHAR"} }
func integer(name string) Column { return Column{name, "INTEGER"} }
func double(name string) Column { return Column{name, "DOUBLE"} }
func boolean(name string) Column { return Column{name, "BOOLEAN"} }
func date(name string) Column { return Column{name, "DATE"} }
func stamp(name string) Column { return Column{name, "TIMESTAMP"} }

var Farms = Relation{
	Name: "farms",
	Columns: []Column{
		{"id", "BIGINT NOT NULL"},
		text("farm_name"),
	},
}

var Relations = []Relation{
	Farms,
	farmScoped("tower_display_with_plants",
		text("tower_identifier"), text("farm_name"), text("tower_status"), text("plant_name"),
		date("date_planted"), integer("individual_ports_used"), integer("overall_available_ports"),
		integer("total_ports"), boolean("has_maintenance"), date("next_maintenance_due"),
	),
	farmScoped("rpt_pending_deliveries",
		text("customer_name"), text("customer_type"), text("customer_type_color"), text("plant_name"),
		text("product_name"), integer("quantity"), text("days_pending_text"),
		date("expected_delivery_date"), text("delivery_urgency"), text("urgency_color"),
	),
	farmScoped("rpt_available_harvest",
		text("plant_name"), integer("available_quantity"), date("harvest_date"),
		integer("days_since_harvest"), text("freshness_level"),
	),
	farmScoped("rpt_harvest_performance",
		date("harvest_week"), text("plant_name"), integer("total_harvested"),
		double("delivery_rate_percent"), double("waste_rate_percent"), text("performance_color"), text("waste_color"),
	),
	farmScoped("rpt_customer_deliveries",
		text("customer_name"), text("customer_type"), text("customer_type_color"),
		integer("completed_deliveries"), integer("pending_deliveries"), integer("total_quantity_delivered"),
		double("completion_rate_percent"), text("completion_rate_color"),
	),
	farmScoped("rpt_daily_operations",
		date("harvest_date"), integer("harvest_batches"), integer("total_harvested"),
		integer("allocations_made"), integer("deliveries_completed"), double("same_day_delivery_rate"),
	),
	farmScoped("rpt_inventory_aging",
		text("plant_name"), integer("available_quantity"), text("age_text"), text("age_category"),
		text("age_color"), text("waste_risk_level"), text("risk_color"),
	),
	farmScoped("rpt_allocation_efficiency",
		date("allocation_week"), text("plant_name"), integer("total_allocations"),
		integer("successful_deliveries"), integer("overdue_allocations"), double("avg_days_to_delivery"),
		double("success_rate_percent"),
	),
	farmScoped("rpt_summary_stats",
		integer("pending_deliveries"), integer("overdue_deliveries"), integer("old_inventory_batches"),
		integer("todays_deliveries"), text("overdue_status_color"), text("old_inventory_color"),
		text("activity_level_color"),
	),
	farmScoped("task_assignment_view",
		text("task_type"), text("assigned_to"), text("assigned_to_name"), text("assigned_role_name"),
		stamp("assigned_at"), stamp("due_date"), text("status"), text("tower_id"), text("tower_identifier"),
		boolean("is_recurring"), text("notes"), text("color_code"), text("bg_color_code"),
	),
	farmScoped("spacer_inventory",
		text("spacer_id"), text("status"), text("status_color"), text("status_background_color"),
		text("plant_type"), integer("quantity"), date("seeded_date"), stamp("expected_ready_date"),
		stamp("spacer_date"),
	),
	farmScoped("pest_recent_applications",
		text("product_name"), text("product_type"), stamp("application_date"), text("treatment_area"),
		double("dose_amount"), text("dose_unit"), text("applicator_name"), boolean("omri_certified"),
	),
	farmScoped("monitoring_tower_dashboard_fixed",
		text("tower_identifier"), integer("row_number"), integer("tower_number_within_row"),
		double("ph_value"), text("ph_color"), double("ec_value"), text("ec_status"), stamp("read_at"),
		text("last_read_human_readable"), text("reader_name"), boolean("needs_attention"),
	),
	farmScoped("light_total_summary",
		stamp("period_day"), double("total_usage_hours"), double("total_energy_used_kwh"),
		double("total_cost"), integer("zones_active"), integer("total_fixtures_active"), text("zones_included"),
	),
	farmScoped("sensor_readings_compiled",
		text("sensor_name"), text("reading_type"), double("value"), stamp("time"),
	),
}

// Statements returns the DDL for every relation in a stable order.
func Statements() []string {
	stmts := make([]string, 0, len(Relations))
	for _, r := range Relations {
		stmts = append(stmts, r.DDL())
	}
	return stmts
}
