package validators

// Upper bounds of the jobs listing; together they keep the record offset
// well inside int range.
const (
	MaxPage  = 100000
	MaxLimit = 100
)

var (
	// CreateJobBody validates POST /jobs.
	CreateJobBody = NewSchema("createJob",
		object(doc{
			"clientName":   nonEmptyString(),
			"siteLocation": nonEmptyString(),
		}, "clientName", "siteLocation"),
		WithMessages(
			requiredString("clientName", "clientName is required"),
			requiredString("siteLocation", "siteLocation is required"),
		),
	)

	// ListJobsQuery validates GET /jobs.
	ListJobsQuery = NewSchema("listJobs",
		object(doc{
			"status": doc{"type": "string", "enum": []string{"open", "closed"}},
			"page":   positiveInteger(MaxPage),
			"limit":  positiveInteger(MaxLimit),
		}),
		WithIntegers("page", "limit"),
		WithDefault("page", "1"),
		WithDefault("limit", "10"),
		WithMessages(
			[]Message{{Field: "status", Keyword: "enum", Text: "status must be either 'open' or 'closed'"}},
			pageMessages("page", MaxPage),
			pageMessages("limit", MaxLimit),
		),
	)

	// JobIDParams validates the {id} route variable.
	JobIDParams = NewSchema("jobIdParam",
		object(doc{"id": idString()}, "id"),
		WithMessages(idMessages("id", "Invalid job ID format", "Job ID is required")),
	)
)

var (
	CreateJob = Rules{Body: CreateJobBody}
	ListJobs  = Rules{Query: ListJobsQuery}
	GetJob    = Rules{Params: JobIDParams}
	CloseJob  = Rules{Params: JobIDParams}
	JobReport = Rules{Params: JobIDParams}
)
