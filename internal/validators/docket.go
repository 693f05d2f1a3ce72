package validators

var (
	// DocketJobParams validates the {jobId} route variable.
	DocketJobParams = NewSchema("docketJobParam",
		object(doc{"jobId": idString()}, "jobId"),
		WithMessages(idMessages("jobId", "Invalid jobId format", "jobId is required")),
	)

	// CreateDocketBody validates POST /jobs/{jobId}/dockets.
	CreateDocketBody = NewSchema("createDocket",
		object(doc{
			"supervisorName": nonEmptyString(),
			"date":           dateString(),
			"labourItems": doc{
				"type":     "array",
				"minItems": 1,
				"items": object(doc{
					"workerName":  nonEmptyString(),
					"role":        nonEmptyString(),
					"hoursWorked": doc{"type": "number", "exclusiveMinimum": 0},
				}, "workerName", "role", "hoursWorked"),
			},
			"notes": doc{"type": "string"},
		}, "supervisorName", "date", "labourItems"),
		WithMessages(
			requiredString("supervisorName", "supervisorName is required"),
			dateMessages("date", true),
			[]Message{
				{Field: "labourItems", Keyword: "required", Text: "labourItems is required"},
				{Field: "labourItems", Keyword: "type", Text: "labourItems must be an array"},
				{Field: "labourItems", Keyword: "minItems", Text: "labourItems must contain at least one item"},
			},
			requiredString("labourItems.workerName", "workerName is required"),
			requiredString("labourItems.role", "role is required"),
			[]Message{
				{Field: "labourItems.hoursWorked", Keyword: "required", Text: "hoursWorked is required"},
				{Field: "labourItems.hoursWorked", Keyword: "type", Text: "hoursWorked must be a number"},
				{Field: "labourItems.hoursWorked", Keyword: "exclusiveMinimum", Text: "hoursWorked must be greater than 0"},
				{Field: "notes", Keyword: "type", Text: "notes must be a string"},
			},
		),
	)

	// ListDocketsQuery validates GET /jobs/{jobId}/dockets.
	ListDocketsQuery = NewSchema("listDockets",
		object(doc{
			"from":           dateString(),
			"to":             dateString(),
			"supervisorName": doc{"type": "string"},
		}),
		WithMessages(dateMessages("from", false), dateMessages("to", false)),
	)
)

var (
	// CreateDocket only checks the route here; the body is validated by the
	// handler once the job is known to be open.
	CreateDocket  = Rules{Params: DocketJobParams}
	ListDockets   = Rules{Params: DocketJobParams, Query: ListDocketsQuery}
	ExportDockets = Rules{Params: DocketJobParams, Query: ListDocketsQuery}
)
