// Package dashboards holds the student-grade and monthly-sales dashboards.
//
// Both are thin pipelines over the engine package:
//
//	book := grades.DefaultBook()
//	view, err := grades.Run(book, grades.DefaultParams())
//
//	ledger := sales.NewLedger(datasource.DefaultSeed)
//	view, err := sales.Run(ledger, sales.DefaultParams())
//
// Datasets are synthetic and built in memory (datasource). Each Run filters
// the immutable base table, aggregates it and returns render-ready tables,
// chart series and metric cards. Nothing is persisted.
package dashboards
