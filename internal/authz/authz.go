package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/highland-admin-portal/internal/errs"
)

// Role is one of the four portal roles
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleRep     Role = "rep"
)

// AllRoles lists every role in a stable order
var AllRoles = []Role{RoleAdmin, RoleManager, RoleStaff, RoleRep}

// ParseRole maps a stored role string onto the enumeration. Legacy "user"
// accounts are treated as staff.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "manager":
		return RoleManager, nil
	case "staff", "user":
		return RoleStaff, nil
	case "rep":
		return RoleRep, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   int64
	Role Role
}

// Owns reports whether the actor authored the record
func (a Actor) Owns(authorID int64) bool {
	return a.ID == authorID
}

// Operation names a guarded action
type Operation string

const (
	ArticleRead            Operation = "article.read"
	ArticleReadUnpublished Operation = "article.read_unpublished"
	ArticleCreate          Operation = "article.create"
	ArticleUpdate          Operation = "article.update"
	ArticleSubmit          Operation = "article.submit"
	ArticleUploadImage     Operation = "article.upload_image"
	ArticleEditAny         Operation = "article.edit_any"
	ArticleSetStatus       Operation = "article.set_status"
	ArticleApprove         Operation = "article.approve"
	ArticleReject          Operation = "article.reject"
	ArticleDelete          Operation = "article.delete"
	ArticleReviewQueue     Operation = "article.review_queue"
	CategoryRead           Operation = "category.read"
	CategoryWrite          Operation = "category.write"
	SupplierRead           Operation = "supplier.read"
	SupplierWrite          Operation = "supplier.write"
	SupplierDelete         Operation = "supplier.delete"
	DashboardRead          Operation = "kb.dashboard"
)

// Capabilities is the operation -> permitted roles table
var Capabilities = map[Operation][]Role{
	ArticleRead:            AllRoles,
	ArticleReadUnpublished: {RoleAdmin, RoleManager, RoleStaff},
	ArticleCreate:          {RoleAdmin, RoleStaff},
	ArticleUpdate:          {RoleAdmin, RoleStaff},
	ArticleSubmit:          {RoleAdmin, RoleStaff},
	ArticleUploadImage:     {RoleAdmin, RoleStaff},
	ArticleEditAny:         {RoleAdmin},
	ArticleSetStatus:       {RoleAdmin},
	ArticleApprove:         {RoleAdmin},
	ArticleReject:          {RoleAdmin},
	ArticleDelete:          {RoleAdmin},
	ArticleReviewQueue:     {RoleAdmin, RoleManager},
	CategoryRead:           AllRoles,
	CategoryWrite:          {RoleAdmin},
	SupplierRead:           AllRoles,
	SupplierWrite:          {RoleAdmin, RoleStaff},
	SupplierDelete:         {RoleAdmin},
	DashboardRead:          AllRoles,
}

// PermissionDenied is the message returned when a role check fails
const PermissionDenied = "You do not have permission to perform this action"

const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Authorizer checks actors against the capability table
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer loads the capability table into a casbin enforcer
func NewAuthorizer() (*Authorizer, error) {
	return NewAuthorizerWithTable(Capabilities)
}

// NewAuthorizerWithTable builds an Authorizer from a custom table
func NewAuthorizerWithTable(table map[Operation][]Role) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	for op, roles := range table {
		for _, role := range roles {
			if _, err := e.AddPolicy(string(role), string(op)); err != nil {
				return nil, fmt.Errorf("failed to add policy %s/%s: %w", role, op, err)
			}
		}
	}

	return &Authorizer{enforcer: e}, nil
}

// Can reports whether the actor's role permits op
func (a *Authorizer) Can(actor Actor, op Operation) bool {
	ok, err := a.enforcer.Enforce(string(actor.Role), string(op))
	return err == nil && ok
}

// Require returns a 403 error unless the actor's role permits op
func (a *Authorizer) Require(actor Actor, op Operation) error {
	if !a.Can(actor, op) {
		return errs.NewForbiddenError(PermissionDenied)
	}
	return nil
}
