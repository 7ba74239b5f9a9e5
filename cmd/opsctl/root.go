package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/database"
	"energy-ops-console/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:                   "opsctl <command>",
	Short:                 "Energy ops console maintenance tool",
	DisableFlagsInUseLine: true,
	SilenceUsage:          true,
	Example: `  # 只添加新表和新列
  $ opsctl migrate --mode auto
  # 重置管理员密码
  $ opsctl reset-password --user admin --password NewPassw0rd!`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		return logger.Setup(logger.Options{
			Level:       os.Getenv("LOG_LEVEL"),
			Format:      "console",
			ServiceName: "opsctl",
		})
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resetPasswordCmd)
}

// openDB 按环境变量连接数据库，调用方负责关闭
func openDB() (*database.ConnectionPool, *gorm.DB, error) {
	cfg := config.GetConfig()
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("无法连接数据库: %w", err)
	}
	return pool, pool.GetDB(), nil
}
