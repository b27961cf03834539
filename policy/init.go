package policy

// 策略名称
const (
	POLICY_DEFAULT = "default"
	POLICY_MINIMAL = "minimal"
)

func RegisterPolicies() {
	RegisterPolicy(POLICY_DEFAULT, NewDefaultPolicy)
	RegisterPolicy(POLICY_MINIMAL, NewMinimalPolicy)
}
