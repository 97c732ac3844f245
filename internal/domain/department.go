package domain

// Department is an apartment unit billed by the building.
type Department struct {
	ID     int64
	Numero int64
	// Monto is the base monthly amount added to every expense at generation time.
	Monto int64
	// Estado is true when every expense of the department was paid at the last reconciliation.
	Estado bool
}

// DepartmentStatus is the read-only debt projection of a department.
type DepartmentStatus struct {
	Department
	GastosPendientes int
	TotalAdeudado    int64
}
