package domain

// DefaultFoundationModel is the conversational model reference every
// agent is created with unless configured otherwise.
const DefaultFoundationModel = "anthropic.claude-3-haiku-20240307-v1:0"

// DefaultEmbeddingModel is the embedding model reference knowledge
// bases are bound to.
const DefaultEmbeddingModel = "amazon.titan-embed-text-v2:0"

// KnowledgeBaseSpec describes one area's knowledge base to be
// provisioned: its deterministic name, the content folder feeding it and
// the vector index backing it.
type KnowledgeBaseSpec struct {
	Area        string
	Name        string
	Description string
	Folder      string
	Index       string
}

// KnowledgeBaseSpecs returns the fixed set of knowledge bases, one per
// subject area, with names derived from the deployment suffix.
func KnowledgeBaseSpecs(suffix string) []KnowledgeBaseSpec {
	return []KnowledgeBaseSpec{
		{
			Area:        "hr",
			Name:        KnowledgeBaseName("hr", suffix),
			Description: "HR Knowledge Base for storing and managing HR-related documents, providing easy access to policies, procedures, and employee resources.",
			Folder:      "hr",
			Index:       IndexName("hr", suffix),
		},
		{
			Area:        "payroll",
			Name:        KnowledgeBaseName("payroll", suffix),
			Description: "Payroll Knowledge Base for storing and managing payroll-related documents, enabling quick access to salary, tax, and benefits information.",
			Folder:      "payroll",
			Index:       IndexName("payroll", suffix),
		},
		{
			Area:        "benefits",
			Name:        KnowledgeBaseName("benefits", suffix),
			Description: "Benefits Knowledge Base for storing and managing employee benefits-related documents, health plans, retirement, and other benefits details.",
			Folder:      "benefits",
			Index:       IndexName("benefits", suffix),
		},
		{
			Area:        "helpdesk",
			Name:        KnowledgeBaseName("it_helpdesk", suffix),
			Description: "IT Helpdesk Knowledge Base for storing and managing technical support documents, troubleshooting guides, and FAQs.",
			Folder:      "it_help_desk",
			Index:       IndexName("it_helpdesk", suffix),
		},
		{
			Area:        "training",
			Name:        KnowledgeBaseName("training", suffix),
			Description: "Training Knowledge Base for storing and managing employee training materials, courses, and resources.",
			Folder:      "training",
			Index:       IndexName("training", suffix),
		},
	}
}

// ParameterSpec is one named string parameter of an action function.
type ParameterSpec struct {
	Name        string
	Description string
}

// ActionGroupSpec declares one callable function an agent may invoke,
// wired to an external executor target.
type ActionGroupSpec struct {
	Name         string
	FunctionName string
	Target       string
	Parameters   []ParameterSpec
}

// AgentSpec describes one specialist agent to be provisioned.
type AgentSpec struct {
	Area            string
	Name            string
	FoundationModel string
	Description     string
	Instruction     string
	ActionGroup     *ActionGroupSpec
}

// AgentSpecs returns the fixed set of specialist agents, all backed by
// the given foundation model (DefaultFoundationModel when empty).
// searchTarget is the executor the web-search action group is wired to;
// when empty, the search agent is created without its action group.
func AgentSpecs(suffix string, model string, searchTarget string) []AgentSpec {
	if model == "" {
		model = DefaultFoundationModel
	}
	specs := []AgentSpec{
		{
			Area:            "hr",
			Name:            AgentName("hr", suffix),
			FoundationModel: model,
			Description: "The HR Agent handles employee queries on leave policies, onboarding, performance reviews, " +
				"and workplace concerns, providing accurate guidance and resources for HR-related processes.",
			Instruction: "You handle queries related to HR policies, employee relations, leave policies, onboarding, and career growth.\n\n" +
				"Instructions:\n" +
				"- Answer employee questions about leave policies, performance reviews, employee relations, and HR processes.\n" +
				"- Guide employees on onboarding, company culture, and career progression.\n" +
				"- Provide accurate information about policies and direct users to relevant HR resources when needed.",
		},
		{
			Area:            "payroll",
			Name:            AgentName("payroll", suffix),
			FoundationModel: model,
			Description: "The Payroll Agent handles queries on salaries, deductions, tax forms, pay schedules, and direct deposits, " +
				"ensuring employees receive accurate payroll and tax information.",
			Instruction: "You handle payroll-related questions, including salary, deductions, tax forms, and direct deposits.\n\n" +
				"Instructions:\n" +
				"- Provide details about pay schedules, tax deductions, and salary structures.\n" +
				"- Guide employees on updating bank details or retrieving tax documents.\n" +
				"- Ensure compliance with payroll policies.",
		},
		{
			Area:            "benefits",
			Name:            AgentName("benefits", suffix),
			FoundationModel: model,
			Description: "The Benefits Agent provides information on health insurance, retirement plans, wellness programs, and " +
				"enrollment options, helping employees understand and manage their benefits.",
			Instruction: "You assist employees with benefits-related queries, including healthcare, retirement plans, and wellness programs.\n\n" +
				"Instructions:\n" +
				"- Provide information on health insurance, dental/vision coverage, and retirement plans.\n" +
				"- Guide employees on how to enroll in or modify benefits.\n" +
				"- Address wellness program inquiries and eligibility requirements.",
		},
		{
			Area:            "helpdesk",
			Name:            AgentName("it_helpdesk", suffix),
			FoundationModel: model,
			Description: "The IT Helpdesk Agent assists with tech support, troubleshooting, software access, password resets, and " +
				"security policies, ensuring smooth IT operations and user support.",
			Instruction: "You handle queries related to IT support, including account unlock, password resets, software installation, and network connectivity issues.\n\n" +
				"Instructions:\n" +
				"- Assist employees with account unlock requests and password reset procedures.\n" +
				"- Guide users through software installation steps and help troubleshoot installation issues.\n" +
				"- Provide support for network connectivity problems and escalate complex problems to the appropriate team if needed.",
		},
		{
			Area:            "training",
			Name:            AgentName("training", suffix),
			FoundationModel: model,
			Description: "The Learning Management Agent assists with training programs, course enrollments, certifications, and " +
				"professional development, guiding employees on growth opportunities and learning resources.",
			Instruction: "You handle queries related to employee learning and development, including training programs, " +
				"skill-building resources, and course enrollment.\n\n" +
				"Instructions:\n" +
				"- Assist employees with finding and enrolling in relevant training programs and courses.\n" +
				"- Provide information on available certifications, development opportunities, and learning paths.\n" +
				"- Guide employees on how to track their learning progress and access course materials.",
		},
	}

	search := AgentSpec{
		Area:            "search",
		Name:            AgentName("search", suffix),
		FoundationModel: model,
		Description: "AI agent designed to enhance employee productivity by efficiently retrieving real-time, relevant " +
			"information from the web to address various work-related queries.",
		Instruction: "You are responsible for retrieving accurate, relevant, and up-to-date information from trusted " +
			"online sources based on work-related queries posed by employees.\n\n" +
			"Steps for Task Completion:\n" +
			"1. Receive the user's query or request for information.\n" +
			"2. Search for the most relevant artifacts on trusted online platforms and return actual URLs.\n" +
			"3. If the user doesn't specify the content type (e.g., blog, video, code sample), ask for clarification.",
	}
	if searchTarget != "" {
		search.ActionGroup = &ActionGroupSpec{
			Name:         "actions_web_search",
			FunctionName: "web_search",
			Target:       searchTarget,
			Parameters: []ParameterSpec{
				{Name: "search_query", Description: "The query to search the web with"},
			},
		}
	}
	return append(specs, search)
}

// SupervisorSpec returns the orchestrator agent's configuration.
func SupervisorSpec(suffix string, model string) AgentSpec {
	if model == "" {
		model = DefaultFoundationModel
	}
	return AgentSpec{
		Area:            "supervisor",
		Name:            AgentName("supervisor", suffix),
		FoundationModel: model,
		Description: "The Supervisor Agent orchestrates all other agents, routes employee queries to the right agent, " +
			"ensures accurate responses, and provides a seamless, unified support experience.",
		Instruction: "You are the Supervisor Agent, responsible for orchestrating multiple specialized agents (HR, IT Helpdesk, " +
			"Payroll, Benefits, Training & Learning, and technical research).\n\n" +
			"Instructions:\n" +
			"- Classify user requests and route them to the appropriate agent(s).\n" +
			"- Coordinate responses when multiple agents are needed.\n" +
			"- Ensure clarity, accuracy, and consistency in responses.\n" +
			"- Escalate appropriately when an agent lacks information.\n" +
			"- Maintain a professional, helpful tone.\n" +
			"- For unrelated questions, politely inform users that you assist only with employee-related inquiries.",
	}
}

// KnowledgeBaseBindingDescription is the free-text description attached
// when an area's knowledge base is associated with its agent.
func KnowledgeBaseBindingDescription(area string, agentName string) string {
	switch area {
	case "hr":
		return "Use this knowledge base to provide accurate HR-related information, including policies, leave, performance reviews, and employee guidelines."
	case "payroll":
		return "Use this knowledge base to provide accurate payroll-related information, including salaries, deductions, tax compliance, and payment schedules."
	case "benefits":
		return "Use this knowledge base to provide detailed information on employee benefits."
	case "helpdesk":
		return "Use this knowledge base to provide accurate IT-related information, including account locks, password reset, software installation instructions, network connectivity issues, and hardware support."
	case "training":
		return "Use this knowledge base to provide accurate information on training programs, course enrollment, certifications, and professional development opportunities."
	}
	return "Knowledge base for " + agentName
}

// CollaborationInstruction is the routing instruction attached when an
// area's specialist is associated with the supervisor.
func CollaborationInstruction(area string, agentName string) string {
	switch area {
	case "hr":
		return "The HR Support Specialist assists with employee queries related to HR policies and procedures."
	case "payroll":
		return "The Payroll Support Specialist assists with payroll inquiries and tax information."
	case "benefits":
		return "The Benefits Support Specialist assists with benefits enrollment and plan information."
	case "helpdesk":
		return "The IT Support Specialist assists with account issues and technical troubleshooting."
	case "training":
		return "The Learning Support Specialist assists with training programs and certifications."
	case "search":
		return "The Web Search agent retrieves relevant information from trusted online sources."
	}
	return "Use the " + agentName + " for specialized tasks in its domain."
}
