package types

const (
	HeaderEnvironment   = "X-Environment-ID"
	HeaderRequestID     = "X-Request-ID"
	HeaderTenantID      = "X-Tenant-ID"
	HeaderAuthorization = "Authorization"
)
