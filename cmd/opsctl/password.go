package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/infrastructure/config"
)

type resetPasswordOptions struct {
	user     string
	password string
}

var resetPasswordOpts = &resetPasswordOptions{}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Reset the password of a console user",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, db, err := openDB()
		if err != nil {
			return err
		}
		defer pool.Close()

		var user models.User
		err = db.Where("user_name = ? AND del_flag = ?", resetPasswordOpts.user, models.DelFlagExist).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("用户不存在: %s", resetPasswordOpts.user)
		}
		if err != nil {
			return err
		}

		svc := services.NewUserService(db, config.GetConfig())
		if err := svc.ResetPassword(&services.ResetPasswordRequest{
			UserID:   user.UserID,
			Password: resetPasswordOpts.password,
		}, "opsctl"); err != nil {
			return err
		}
		cmd.Printf("用户 %s 的密码已重置\n", user.UserName)
		return nil
	},
}

func init() {
	resetPasswordCmd.Flags().StringVar(&resetPasswordOpts.user, "user", "", "user name")
	resetPasswordCmd.Flags().StringVar(&resetPasswordOpts.password, "password", "", "new password")
	cobra.CheckErr(resetPasswordCmd.MarkFlagRequired("user"))
	cobra.CheckErr(resetPasswordCmd.MarkFlagRequired("password"))
}
