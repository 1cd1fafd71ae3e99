package quota

import (
	"fmt"
	"time"
)

// FTPAccount is the login row the FTP daemon authenticates against. Plan
// accounts are provisioned out of band; the engine only creates the derived
// add-on accounts that share the customer's credentials surface.
type FTPAccount struct {
	id           uint
	name         AccountKey
	passwordHash string
	uid          int
	gid          int
	homeDir      string
	shell        string
	createdAt    time.Time
}

// NewFTPAccount creates a login row for a derived add-on account.
func NewFTPAccount(name AccountKey, passwordHash string, uid, gid int, homeDir string) (*FTPAccount, error) {
	if name.IsZero() {
		return nil, fmt.Errorf("ftp account requires an account key")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("ftp account requires a password hash")
	}
	if homeDir == "" {
		return nil, fmt.Errorf("ftp account requires a home directory")
	}
	return &FTPAccount{
		name:         name,
		passwordHash: passwordHash,
		uid:          uid,
		gid:          gid,
		homeDir:      homeDir,
		shell:        "/sbin/nologin",
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructFTPAccount rebuilds an account from persistence.
func ReconstructFTPAccount(
	id uint,
	name AccountKey,
	passwordHash string,
	uid, gid int,
	homeDir, shell string,
	createdAt time.Time,
) *FTPAccount {
	return &FTPAccount{
		id:           id,
		name:         name,
		passwordHash: passwordHash,
		uid:          uid,
		gid:          gid,
		homeDir:      homeDir,
		shell:        shell,
		createdAt:    createdAt,
	}
}

func (a *FTPAccount) ID() uint             { return a.id }
func (a *FTPAccount) Name() AccountKey     { return a.name }
func (a *FTPAccount) PasswordHash() string { return a.passwordHash }
func (a *FTPAccount) UID() int             { return a.uid }
func (a *FTPAccount) GID() int             { return a.gid }
func (a *FTPAccount) HomeDir() string      { return a.homeDir }
func (a *FTPAccount) Shell() string        { return a.shell }
func (a *FTPAccount) CreatedAt() time.Time { return a.createdAt }

// SetID writes back the persistence-generated ID after insert.
func (a *FTPAccount) SetID(id uint) {
	a.id = id
}
