package content

// Routes returns the site's route manifest. The HTTP router and the sitemap
// generator both read it, so a page exists in one exactly when it exists in
// the other. A fresh slice is returned on every call.
func Routes() []Route {
	return []Route{
		{Path: "/", Name: "home", Title: "Production-Grade Engineering Playbooks",
			Summary: "Master production-grade software engineering with deep technical playbooks. Learn system design, API architecture, backend engineering, and scalable infrastructure."},
		{Path: "/roadmap", Name: "roadmap", Title: "Roadmap",
			Summary: "What we are building next: new playbook tracks, interactive labs and community features."},
		{Path: "/about", Name: "about", Title: "About StackCraft",
			Summary: "We prioritize deep understanding over surface-level coverage and teach systems as they actually behave in production."},
		{Path: "/privacy", Name: "privacy", Title: "Privacy Policy",
			Summary: "We collect only what we need to run the site, never sell personal data, and keep newsletter addresses private."},
		{Path: "/terms", Name: "terms", Title: "Terms of Service",
			Summary: "The rules for using StackCraft content, code samples and community spaces."},
		{Path: "/platform", Name: "platform", Title: "The Platform",
			Summary: "Structured learning paths, production-grade code samples and architecture reviews in one place."},
		{Path: "/community", Name: "community", Title: "Community",
			Summary: "Join engineers who share battle-tested patterns and review each other's designs."},
		{Path: "/playbooks", Name: "playbooks", Title: "Engineering Playbooks",
			Summary: "Production-grade playbooks covering AI, .NET, Java, DevOps, Cloud, System Architecture, Testing, and API Design."},
		{Path: "/blog", Name: "blog", Title: "Engineering Blog",
			Summary: "Deep technical articles and playbooks from engineers who build systems at scale."},
		{Path: "/blog/:slug", Name: "post"},
		{Path: "/search", Name: "search", Title: "Search Engineering Playbooks",
			Summary: "Search through our library of production-grade engineering playbooks covering AI, .NET, Java, DevOps, Cloud, and more."},
		{Path: "/*", Name: "notfound", Title: "Page Not Found"},
	}
}
