package app

import (
	"fmt"
	"strings"

	"scheintool/domain/core"
)

// Report describes the outcome of one run. The two outputs are attempted
// independently and succeed or fail on their own.
type Report struct {
	RunID core.RunID

	EnrollmentHash core.Hash
	GradesHash     core.Hash

	Rows      int
	Unmatched Unmatched

	CertificatePath string
	Pages           int
	CertificateErr  error

	TablePath string
	TableErr  error
}

// Complete reports whether both outputs were written
func (r *Report) Complete() bool {
	return r.CertificateErr == nil && r.TableErr == nil
}

// Failed reports whether neither output was written
func (r *Report) Failed() bool {
	return r.CertificateErr != nil && r.TableErr != nil
}

// Summary is the notification shown to the user after a run
func (r *Report) Summary() string {
	return fmt.Sprintf("Certificates were %screated successfully!\nGrade table was %screated successfully!",
		not(r.CertificateErr), not(r.TableErr))
}

// Details lists paths and errors below the summary
func (r *Report) Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d certificates\n", r.RunID.Short(), r.Rows)
	if r.CertificateErr != nil {
		fmt.Fprintf(&b, "  certificates: %v\n", r.CertificateErr)
	} else {
		fmt.Fprintf(&b, "  certificates: %s (%d pages)\n", r.CertificatePath, r.Pages)
	}
	if r.TableErr != nil {
		fmt.Fprintf(&b, "  grade table:  %v\n", r.TableErr)
	} else {
		fmt.Fprintf(&b, "  grade table:  %s\n", r.TablePath)
	}
	if !r.Unmatched.Empty() {
		fmt.Fprintf(&b, "  skipped: %s\n", r.Unmatched)
	}
	return b.String()
}

func not(err error) string {
	if err != nil {
		return "not "
	}
	return ""
}
