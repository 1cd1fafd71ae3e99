package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

// FTPUserModel maps the ftpuser login table read by the FTP daemon's
// mod_sql. Column names follow the daemon's configured queries, not our
// naming conventions.
type FTPUserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Userid       string `gorm:"column:userid;uniqueIndex;size:64;not null"`
	Passwd       string `gorm:"column:passwd;size:128;not null"`
	UID          int    `gorm:"column:uid;not null"`
	GID          int    `gorm:"column:gid;not null"`
	Homedir      string `gorm:"column:homedir;size:255;not null"`
	Shell        string `gorm:"column:shell;size:64;not null;default:'/sbin/nologin'"`
	CreatedAt    time.Time
}

func (FTPUserModel) TableName() string {
	return constants.TableFTPAccounts
}
