package models

import "github.com/bajabeat/descargas/internal/shared/constants"

// QuotaTalliesModel maps the ftpquotatallies usage table. The FTP daemon
// owns every write; this service only reads it.
type QuotaTalliesModel struct {
	Name          string `gorm:"column:name;primaryKey;size:64"`
	QuotaType     string `gorm:"column:quota_type;primaryKey;size:10"`
	BytesInUsed   int64  `gorm:"column:bytes_in_used;not null;default:0"`
	BytesOutUsed  int64  `gorm:"column:bytes_out_used;not null;default:0"`
	BytesXferUsed int64  `gorm:"column:bytes_xfer_used;not null;default:0"`
	FilesInUsed   int64  `gorm:"column:files_in_used;not null;default:0"`
	FilesOutUsed  int64  `gorm:"column:files_out_used;not null;default:0"`
	FilesXferUsed int64  `gorm:"column:files_xfer_used;not null;default:0"`
}

func (QuotaTalliesModel) TableName() string {
	return constants.TableQuotaTallies
}
