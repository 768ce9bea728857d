package types

type ContentType string

const (
	ContentTypeSymlink ContentType = "inode/symlink"
	ContentTypeFontTTF ContentType = "application/x-font-ttf"
	ContentTypeFontOTF ContentType = "application/x-font-otf"
	ContentTypeDesktop ContentType = "application/x-desktop"
	ContentTypeXML     ContentType = "application/xml"
	ContentTypeSQLite  ContentType = "application/x-sqlite3"
)

type RejectReason string

const (
	RejectBlacklisted            RejectReason = "blacklisted"
	RejectDuplicate              RejectReason = "duplicate"
	RejectMissingRequiredSidecar RejectReason = "missing-required-sidecar"
	RejectNoName                 RejectReason = "no-name"
	RejectNoComment              RejectReason = "no-comment"
	RejectNoIcon                 RejectReason = "no-icon"
)

type PackageStatus string

const (
	PackageStatusBuilt         PackageStatus = "built"
	PackageStatusEmpty         PackageStatus = "empty"
	PackageStatusBlacklisted   PackageStatus = "blacklisted"
	PackageStatusExtractFailed PackageStatus = "extract-failed"
)
