package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database from env. DB_DRIVER=sqlite is the local
// development shortcut; production runs MySQL.
func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "dinein.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		user := getenv("DB_USER", "root")
		pass := os.Getenv("DB_PASSWORD")
		host := getenv("DB_HOST", "127.0.0.1")
		port := getenv("DB_PORT", "3306")
		name := getenv("DB_NAME", "dinein")
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, pass, host, port, name)
	}

	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
