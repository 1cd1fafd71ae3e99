package quota

// Tallies is the usage row the FTP daemon maintains for an account. The
// engine treats it as read-only: it informs downgrade decisions and quota
// snapshots but is never written here, the daemon owns it.
type Tallies struct {
	name          AccountKey
	quotaType     QuotaType
	bytesInUsed   int64
	bytesOutUsed  int64
	bytesXferUsed int64
	filesInUsed   int64
	filesOutUsed  int64
	filesXferUsed int64
}

// ReconstructTallies rebuilds a tally row from persistence.
func ReconstructTallies(
	name AccountKey,
	quotaType QuotaType,
	bytesInUsed, bytesOutUsed, bytesXferUsed int64,
	filesInUsed, filesOutUsed, filesXferUsed int64,
) *Tallies {
	return &Tallies{
		name:          name,
		quotaType:     quotaType,
		bytesInUsed:   bytesInUsed,
		bytesOutUsed:  bytesOutUsed,
		bytesXferUsed: bytesXferUsed,
		filesInUsed:   filesInUsed,
		filesOutUsed:  filesOutUsed,
		filesXferUsed: filesXferUsed,
	}
}

// ZeroTallies returns an empty usage row for accounts the daemon has not
// tallied yet.
func ZeroTallies(name AccountKey) *Tallies {
	return &Tallies{name: name, quotaType: QuotaTypeUser}
}

func (t *Tallies) Name() AccountKey     { return t.name }
func (t *Tallies) QuotaType() QuotaType { return t.quotaType }
func (t *Tallies) BytesInUsed() int64   { return t.bytesInUsed }
func (t *Tallies) BytesOutUsed() int64  { return t.bytesOutUsed }
func (t *Tallies) BytesXferUsed() int64 { return t.bytesXferUsed }
func (t *Tallies) FilesInUsed() int64   { return t.filesInUsed }
func (t *Tallies) FilesOutUsed() int64  { return t.filesOutUsed }
func (t *Tallies) FilesXferUsed() int64 { return t.filesXferUsed }
