// Package onboarding runs the tenant provisioning saga:
// Tenant → AdminUser → Subscription → Ready.
//
// Stages run strictly in order, each one needing the tenant id produced by
// the first. A failing stage is marked Error and the run stops; stages after
// it stay Idle. Nothing already created is rolled back: the operator follows
// the stage's Fallback instructions instead.
package onboarding

type StageKey int

const (
	StageTenant StageKey = iota
	StageAdminUser
	StageSubscription
	StageReady

	numStages = int(StageReady) + 1
)

// Stages lists every stage in execution order.
var Stages = [numStages]StageKey{StageTenant, StageAdminUser, StageSubscription, StageReady}

var stageNames = [numStages]string{"tenant", "admin", "subscription", "ready"}

func (k StageKey) String() string {
	if k < 0 || int(k) >= numStages {
		return "unknown"
	}
	return stageNames[k]
}

var stageLabels = [numStages]string{
	"Tenant created (POST /v1/tenants)",
	"Admin user (POST /v1/tenants/{tenantId}/users)",
	"Subscription checkout (POST /v1/{tenantId}/subscriptions/checkout)",
	"Backoffice ready and domains assigned",
}

var stageFallbacks = [numStages]string{
	"Retry the creation with the same data",
	"Resend the invitation or generate a temporary password",
	"Create the Mercado Pago preference manually using the preferenceId",
	"Use the direct backoffice URL or the generated subdomain",
}

// Label describes what the stage does.
func Label(k StageKey) string {
	if k < 0 || int(k) >= numStages {
		return ""
	}
	return stageLabels[k]
}

// Fallback is the manual step an operator takes when the stage fails.
func Fallback(k StageKey) string {
	if k < 0 || int(k) >= numStages {
		return ""
	}
	return stageFallbacks[k]
}

type StageStatus int

const (
	StatusIdle StageStatus = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s StageStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type StageProgress struct {
	Status StageStatus
	Detail string
}

// Progress is the status of every stage, indexed by StageKey.
type Progress [numStages]StageProgress

func (p Progress) Get(k StageKey) StageProgress {
	return p[k]
}

// Failed returns the stage in Error, if any.
func (p Progress) Failed() (StageKey, bool) {
	for _, k := range Stages {
		if p[k].Status == StatusError {
			return k, true
		}
	}
	return 0, false
}

// Complete reports whether every stage is Done.
func (p Progress) Complete() bool {
	for _, k := range Stages {
		if p[k].Status != StatusDone {
			return false
		}
	}
	return true
}
