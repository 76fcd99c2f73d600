package fields

// Project types offered by the wizard.
const (
	ProjectBlockchain     = "Blockchain"
	ProjectDeFi           = "DeFi"
	ProjectNFT            = "NFT"
	ProjectBridge         = "Bridge"
	ProjectInfrastructure = "Infrastructure"
	ProjectOracle         = "Oracle"
	ProjectGameFi         = "GameFi"
	ProjectDAO            = "DAO"
	ProjectSocial         = "Social"
	ProjectAI             = "AI"
	ProjectOther          = "Other"
)

// ProjectTypes lists the project types in display order.
var ProjectTypes = []string{
	ProjectBlockchain, ProjectDeFi, ProjectNFT, ProjectBridge, ProjectInfrastructure,
	ProjectOracle, ProjectGameFi, ProjectDAO, ProjectSocial, ProjectAI, ProjectOther,
}

// IsProjectType reports whether t is offered.
func IsProjectType(t string) bool {
	for _, p := range ProjectTypes {
		if p == t {
			return true
		}
	}
	return false
}

// RegionsField is the field id fed by the region selection sub-flow.
const RegionsField = "regions"

// Schema is the ordered field list for one project type.
type Schema struct {
	ProjectType string  `json:"project_type"`
	Fields      []Field `json:"fields"`
}

// Field returns the field with id.
func (s Schema) Field(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// RequiresRegions reports whether the schema needs a region selection.
func (s Schema) RequiresRegions() bool {
	f, ok := s.Field(RegionsField)
	return ok && f.Required
}

func base() []Field {
	return []Field{
		{ID: "name", Label: "Name", Type: TypeText, Required: true, MinLen: 2, MaxLen: 50},
		{ID: "logo", Label: "Logo", Type: TypeImage, Required: true},
		{ID: "about", Label: "Description", Type: TypeTextarea, Required: true, MinLen: 50, MaxLen: 500},
		{ID: "website", Label: "Website", Type: TypeURL},
		{ID: "email", Label: "Contact email", Type: TypeEmail},
	}
}

var schemas = map[string]func() []Field{
	ProjectBlockchain: func() []Field {
		return append(base(),
			Field{ID: "layerType", Label: "Layer type", Type: TypeSelect, Required: true,
				Options: []string{"Layer 1", "Layer 2", "Sidechain", "Application Chain", "Other"}},
			Field{ID: "otherLayerType", Label: "Other layer type", Type: TypeText, MaxLen: 50},
			Field{ID: "consensus", Label: "Consensus", Type: TypeSelect, Required: true,
				Options: []string{"Proof of Stake", "Proof of Work", "Proof of Authority", "Other"}},
			Field{ID: "tps", Label: "TPS", Type: TypePositiveInteger, Required: true},
			Field{ID: "blockTime", Label: "Block time", Type: TypePositiveInteger, Required: true},
			Field{ID: "nativeToken", Label: "Native token", Type: TypeTokenSymbol, Required: true},
			Field{ID: "themeColor", Label: "Theme color", Type: TypeColor, Required: true},
			Field{ID: RegionsField, Label: "Regions", Type: TypeRegions, Required: true},
		)
	},
	ProjectDeFi: func() []Field {
		return append(base(),
			Field{ID: "type", Label: "DeFi type", Type: TypeSelect, Required: true,
				Options: []string{"DEX", "Lending", "Yield Farming", "Insurance", "Other"}},
			Field{ID: "tvl", Label: "TVL", Type: TypeNumber},
		)
	},
	ProjectNFT: func() []Field {
		return append(base(),
			Field{ID: "type", Label: "NFT type", Type: TypeSelect, Required: true,
				Options: []string{"Art", "Gaming", "Music", "Virtual Real Estate", "Other"}},
		)
	},
	ProjectBridge: func() []Field {
		return append(base(),
			Field{ID: "category", Label: "Bridge category", Type: TypeSelect, Required: true,
				Options: []string{"Token", "NFT", "Message", "Other"}},
			Field{ID: "otherCategory", Label: "Other category", Type: TypeText, MaxLen: 50},
			Field{ID: "networks", Label: "Networks", Type: TypeMultiselect, Required: true},
		)
	},
	ProjectOracle: func() []Field {
		return append(base(),
			Field{ID: "type", Label: "Oracle type", Type: TypeSelect, Required: true,
				Options: []string{"Price Feed", "Random Number", "Weather", "Sports", "Other"}},
			Field{ID: "otherType", Label: "Other type", Type: TypeText, MaxLen: 50},
			Field{ID: "updateFrequency", Label: "Update frequency", Type: TypeRadio, Required: true,
				Options: []string{"Real-time", "Every minute", "Every hour", "Daily", "Other"}},
			Field{ID: "supportedNetworks", Label: "Supported networks", Type: TypeMultiselect, Required: true},
		)
	},
}

// SchemaFor returns the schema of projectType. Project types without a
// dedicated schema use the base fields.
func SchemaFor(projectType string) (Schema, bool) {
	if !IsProjectType(projectType) {
		return Schema{}, false
	}
	build, ok := schemas[projectType]
	if !ok {
		build = base
	}
	return Schema{ProjectType: projectType, Fields: build()}, true
}
