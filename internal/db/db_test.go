package db

import (
	"strings"
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestSchemaRejectsInconsistentCost(t *testing.T) {
	database := NewTestDB(t)

	res, err := database.Exec(`INSERT INTO armor (name, body_part, max_level) VALUES ('Hylian Hood', 'HEAD', 4)`)
	if err != nil {
		t.Fatalf("inserting armor: %v", err)
	}
	armorID, _ := res.LastInsertId()

	if _, err := database.Exec(`INSERT INTO armor_upgrade_costs (armor_id, level, material, quantity) VALUES (?, 1, 'RUPEE', 0)`, armorID); err == nil {
		t.Error("expected material with zero quantity to be rejected")
	}
	if _, err := database.Exec(`INSERT INTO armor_upgrade_costs (armor_id, level, material, quantity) VALUES (?, 1, '', 5)`, armorID); err == nil {
		t.Error("expected quantity without material to be rejected")
	}
	if _, err := database.Exec(`INSERT INTO armor_upgrade_costs (armor_id, level, material, quantity) VALUES (?, 0, '', 0)`, armorID); err != nil {
		t.Errorf("expected free row to be accepted: %v", err)
	}
}

func TestSchemaUniqueSetBodyPart(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(`INSERT INTO armor (name, set_code, body_part, max_level) VALUES ('Hylian Hood', 'HYLIAN_SET', 'HEAD', 4)`); err != nil {
		t.Fatalf("inserting armor: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO armor (name, set_code, body_part, max_level) VALUES ('Other Hood', 'HYLIAN_SET', 'HEAD', 4)`); err == nil {
		t.Error("expected duplicate (set, body part) to be rejected")
	}

	// Ungrouped pieces are exempt.
	if _, err := database.Exec(`INSERT INTO armor (name, body_part, max_level) VALUES ('Sand Boots', 'LEGS', 4)`); err != nil {
		t.Fatalf("inserting ungrouped armor: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO armor (name, body_part, max_level) VALUES ('Snow Boots', 'LEGS', 4)`); err != nil {
		t.Errorf("expected second ungrouped LEGS piece to be accepted: %v", err)
	}
}

func TestOpenEnablesForeignKeys(t *testing.T) {
	database := NewTestDB(t)

	var fk int
	if err := database.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign keys on, got %d", fk)
	}

	if _, err := database.Exec(`INSERT INTO user_armor (user_id, armor_id, level) VALUES (999, 999, 1)`); err == nil {
		t.Error("expected progress for unknown user and armor to be rejected")
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN("armory.sqlite3")
	for _, want := range []string{"armory.sqlite3?", "_txlock=immediate", "foreign_keys%28ON%29"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}
