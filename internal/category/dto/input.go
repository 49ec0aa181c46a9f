package dto

type CreateCategoryInput struct {
	Name      string
	ParentIDs []string
}

// UpdateCategoryInput is a typed patch: nil fields are left untouched.
type UpdateCategoryInput struct {
	ID        string
	Name      *string
	ParentIDs *[]string
}
