package roles

var catalog = []Category{
	{
		Name: "Software Development and Engineering",
		Roles: []Role{
			{
				Name:           "Frontend Developer",
				Description:    "Builds responsive, accessible user interfaces for web applications.",
				RequiredSkills: []string{"HTML", "CSS", "JavaScript", "TypeScript", "React", "Testing", "Web Performance"},
			},
			{
				Name:           "Backend Developer",
				Description:    "Designs and operates server-side services, APIs and data stores.",
				RequiredSkills: []string{"Go", "Python", "SQL", "REST", "Microservices", "Docker", "Cloud Platforms"},
			},
			{
				Name:           "Full Stack Developer",
				Description:    "Delivers features end to end across frontend, backend and infrastructure.",
				RequiredSkills: []string{"JavaScript", "React", "Node.js", "SQL", "REST", "Git", "CI/CD"},
			},
			{
				Name:           "Mobile Developer",
				Description:    "Builds native or cross-platform mobile applications.",
				RequiredSkills: []string{"Swift", "Kotlin", "Flutter", "React Native", "Mobile UI", "App Store Deployment"},
			},
			{
				Name:           "DevOps Engineer",
				Description:    "Automates delivery pipelines and runs reliable infrastructure.",
				RequiredSkills: []string{"Linux", "Docker", "Kubernetes", "Terraform", "CI/CD", "Monitoring", "Scripting"},
			},
		},
		Courses: []Course{
			{Title: "The Go Programming Language Tour", URL: "https://go.dev/tour/"},
			{Title: "Full Stack Open", URL: "https://fullstackopen.com/en/"},
			{Title: "Kubernetes Basics", URL: "https://kubernetes.io/docs/tutorials/kubernetes-basics/"},
			{Title: "MDN Learn Web Development", URL: "https://developer.mozilla.org/en-US/docs/Learn"},
		},
	},
	{
		Name: "Data Science and Analytics",
		Roles: []Role{
			{
				Name:           "Data Scientist",
				Description:    "Builds statistical and machine learning models to answer business questions.",
				RequiredSkills: []string{"Python", "Statistics", "Machine Learning", "SQL", "Pandas", "Data Visualization"},
			},
			{
				Name:           "Data Analyst",
				Description:    "Turns raw data into reports, dashboards and actionable insight.",
				RequiredSkills: []string{"SQL", "Excel", "Tableau", "Power BI", "Python", "Statistics"},
			},
			{
				Name:           "Machine Learning Engineer",
				Description:    "Productionizes machine learning models and the pipelines that feed them.",
				RequiredSkills: []string{"Python", "PyTorch", "TensorFlow", "MLOps", "Feature Engineering", "Cloud Platforms"},
			},
			{
				Name:           "Data Engineer",
				Description:    "Builds and maintains data pipelines and warehouses.",
				RequiredSkills: []string{"SQL", "Spark", "Airflow", "ETL", "Data Modeling", "Python"},
			},
		},
		Courses: []Course{
			{Title: "Machine Learning Specialization", URL: "https://www.coursera.org/specializations/machine-learning-introduction"},
			{Title: "Google Data Analytics Certificate", URL: "https://www.coursera.org/professional-certificates/google-data-analytics"},
			{Title: "Kaggle Learn", URL: "https://www.kaggle.com/learn"},
		},
	},
	{
		Name: "UI/UX Design",
		Roles: []Role{
			{
				Name:           "UI Designer",
				Description:    "Crafts visual interfaces, design systems and interaction details.",
				RequiredSkills: []string{"Figma", "Visual Design", "Typography", "Design Systems", "Prototyping"},
			},
			{
				Name:           "UX Designer",
				Description:    "Researches users and designs flows that solve their problems.",
				RequiredSkills: []string{"User Research", "Wireframing", "Prototyping", "Usability Testing", "Information Architecture"},
			},
			{
				Name:           "Product Designer",
				Description:    "Owns the end-to-end design of product features alongside engineering.",
				RequiredSkills: []string{"Figma", "User Research", "Interaction Design", "Prototyping", "Product Thinking"},
			},
		},
		Courses: []Course{
			{Title: "Google UX Design Certificate", URL: "https://www.coursera.org/professional-certificates/google-ux-design"},
			{Title: "Interaction Design Foundation", URL: "https://www.interaction-design.org/courses"},
		},
	},
	{
		Name: "Cybersecurity",
		Roles: []Role{
			{
				Name:           "Security Analyst",
				Description:    "Monitors systems, triages alerts and responds to incidents.",
				RequiredSkills: []string{"SIEM", "Incident Response", "Networking", "Threat Intelligence", "Linux"},
			},
			{
				Name:           "Penetration Tester",
				Description:    "Finds and reports vulnerabilities through authorized testing.",
				RequiredSkills: []string{"Web Security", "Burp Suite", "Networking", "Scripting", "Reporting"},
			},
		},
		Courses: []Course{
			{Title: "Google Cybersecurity Certificate", URL: "https://www.coursera.org/professional-certificates/google-cybersecurity"},
			{Title: "PortSwigger Web Security Academy", URL: "https://portswigger.net/web-security"},
		},
	},
	{
		Name: "Product and Project Management",
		Roles: []Role{
			{
				Name:           "Product Manager",
				Description:    "Defines product direction, priorities and success metrics.",
				RequiredSkills: []string{"Roadmapping", "User Research", "Analytics", "Stakeholder Management", "Agile"},
			},
			{
				Name:           "Project Manager",
				Description:    "Plans and delivers projects on scope, time and budget.",
				RequiredSkills: []string{"Planning", "Risk Management", "Agile", "Scrum", "Communication"},
			},
		},
		Courses: []Course{
			{Title: "Google Project Management Certificate", URL: "https://www.coursera.org/professional-certificates/google-project-management"},
			{Title: "Scrum Guide", URL: "https://scrumguides.org/"},
		},
	},
}
