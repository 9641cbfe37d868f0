package model

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&Student{},
		&Company{},
		&Institution{},
		&File{},
		&Job{},
		&JobApplication{},
		&ResidencyPeriod{},
		&ResidencyAllocation{},
		&CompanyProject{},
		&ProjectAllocation{},
		&IesCard{},
		&LandingImage{},
	)
}
