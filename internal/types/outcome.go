package types

// Decision is the verdict of the acceptance policy for one record.
// Missing lists every required field that was absent, in check order;
// Reason carries the first one.
type Decision struct {
	Accepted bool
	Reason   RejectReason
	Missing  []RejectReason
}

func Accept() Decision {
	return Decision{Accepted: true}
}

func Reject(reason RejectReason) Decision {
	return Decision{Reason: reason}
}

type Rejection struct {
	ID     string
	Reason RejectReason
}

// PackageResult summarizes one package build. Err is only set for
// PackageStatusExtractFailed.
type PackageResult struct {
	Package         PackageInfo
	Status          PackageStatus
	Accepted        []string
	Rejected        []Rejection
	CatalogPath     string
	IconArchivePath string
	Err             error
}
