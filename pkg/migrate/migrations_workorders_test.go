package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWorkOrdersMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_work_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no work orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS work_orders",
		"CREATE TABLE IF NOT EXISTS work_order_parts",
		"CREATE INDEX IF NOT EXISTS idx_work_orders_branch_status",
		"FOREIGN KEY (work_order_id) REFERENCES work_orders(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS work_orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

// Customer deletion must never erase order history; the customer and vehicle
// links detach instead of cascading.
func TestWorkOrdersMigrationDetachesCustomerLinks(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_work_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no work orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, sub := range []string{
		"FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE SET NULL",
		"FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE SET NULL",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	for _, sub := range []string{
		"FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE",
		"FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE",
		"customer_id UUID NOT NULL",
		"vehicle_id UUID NOT NULL",
	} {
		if strings.Contains(content, sub) {
			t.Errorf("unexpected statement %q", sub)
		}
	}
}
