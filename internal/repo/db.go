package repo

import (
	"MyVault/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// SQLitePragmas — параметры соединения SQLite: внешние ключи (нужны для каскадного удаления)
// и сортируемый формат времени.
const SQLitePragmas = "_pragma=foreign_keys(1)&_time_format=sqlite"

// InitDB открывает базу и выполняет миграции. driver: "postgres" или "sqlite";
// для пустого driver выбор делается по виду DSN.
func InitDB(driver, dsn string) (*gorm.DB, error) {
	if driver == "" {
		driver = detectDriver(dsn)
	}

	var dial gorm.Dialector
	switch driver {
	case "postgres":
		dial = postgres.Open(dsn)
	case "sqlite":
		if dsn == "" {
			dsn = "file:myvault.db"
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: withSQLitePragmas(dsn)}
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт таблицы items и дочерние таблицы с внешним ключом ON DELETE CASCADE.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Item{}, &model.Expense{}, &model.Task{}, &model.ChatMessage{}, &model.FileAsset{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func detectDriver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + SQLitePragmas
	}
	return dsn + "?" + SQLitePragmas
}
