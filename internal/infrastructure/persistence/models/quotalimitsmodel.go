package models

import (
	"time"

	"github.com/bajabeat/descargas/internal/shared/constants"
)

// QuotaLimitsModel maps the ftpquotalimits table enforced by the FTP
// daemon's mod_quotatab. per_session is an enum('false','true') in the
// daemon's schema, so it travels as a string here and is converted at the
// mapper boundary.
type QuotaLimitsModel struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"column:name;uniqueIndex;size:64;not null"`
	QuotaType      string `gorm:"column:quota_type;size:10;not null;default:'user'"`
	PerSession     string `gorm:"column:per_session;size:5;not null;default:'false'"`
	LimitType      string `gorm:"column:limit_type;size:4;not null;default:'hard'"`
	BytesInAvail   int64  `gorm:"column:bytes_in_avail;not null;default:0"`
	BytesOutAvail  int64  `gorm:"column:bytes_out_avail;not null;default:0"`
	BytesXferAvail int64  `gorm:"column:bytes_xfer_avail;not null;default:0"`
	FilesInAvail   int64  `gorm:"column:files_in_avail;not null;default:0"`
	FilesOutAvail  int64  `gorm:"column:files_out_avail;not null;default:0"`
	FilesXferAvail int64  `gorm:"column:files_xfer_avail;not null;default:0"`
	UpdatedAt      time.Time
}

func (QuotaLimitsModel) TableName() string {
	return constants.TableQuotaLimits
}
