package prompts

const extractSpec = `Respond with a JSON object matching this exact structure:

{
  "feature_type": "hole|boss|surface|slot|groove|shaft|pattern|bend",
  "geometry": {
    "diameter": null,
    "length": null,
    "width": null,
    "height": null,
    "depth": null,
    "angle": null,
    "count": null,
    "pcd": null,
    "unit": "mm"
  },
  "material": "<material or unspecified>",
  "manufacturing_process": "<process or unspecified>",
  "mating_condition": "<mating context or null>",
  "parent_surface": "<surface the feature sits on or null>"
}

Field constraints:
- feature_type: exactly one of hole, boss, surface, slot, groove, shaft,
  pattern, bend. A repeated group of holes is a pattern.
- geometry: numbers or null. count is an integer. pcd is the pitch circle
  diameter of a pattern. angle is in degrees.
- material, manufacturing_process: snake_case identifiers where possible
  (e.g. "AL6061-T6", "cnc_milling", "sheet_metal"); "unspecified" when unknown.
- mating_condition: a short snake_case phrase for the assembly context
  (e.g. "clearance_fit_bolt", "bearing_bore_concentric"), null when none.

Example:
Input: "Cylindrical aluminum boss, 12mm diameter, 8mm tall, CNC machined, mates with a bearing bore"
Output: {"feature_type": "boss", "geometry": {"diameter": 12.0, "height": 8.0, "unit": "mm"}, "material": "AL6061-T6", "manufacturing_process": "cnc_milling", "mating_condition": "bearing_bore_concentric", "parent_surface": null}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Describe exactly one feature`

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "primary_control": "<characteristic name>",
  "symbol": "<unicode symbol>",
  "symbol_name": "<characteristic name>",
  "tolerance_class": "tight|medium|loose",
  "datum_required": true,
  "modifier": "MMC|LMC|RFS|null",
  "reasoning_key": "<short snake_case key>",
  "confidence": 0.0
}

Characteristic reference:

Category    | Characteristic       | Symbol | ASME      | datum_required
------------|----------------------|--------|-----------|---------------
Form        | straightness         | -      | 6.4.1     | false
Form        | flatness             | ▱      | 6.4.2     | false
Form        | circularity          | ○      | 6.4.3     | false
Form        | cylindricity         | ⌭      | 6.4.4     | false
Profile     | profile_of_a_line    | ⌒      | 6.5.2(b)  | true or false
Profile     | profile_of_a_surface | ⌓      | 6.5.2(b)  | true or false
Orientation | angularity           | ∠      | 6.6.2     | true
Orientation | parallelism          | //     | 6.6.3     | true
Orientation | perpendicularity     | ⊥      | 6.6.4     | true
Location    | position             | ⊕      | 5.2       | true
Location    | concentricity        | ◎      | 5.11.3    | true
Location    | symmetry             | ≡      | 5.11.3    | true
Runout      | circular_runout      | ↗      | 6.7.1.2.1 | true
Runout      | total_runout         | ↗↗     | 6.7.1.2.2 | true

Field constraints:
- primary_control, symbol_name: a characteristic name from the table.
- datum_required: MUST be false for form controls and true for orientation,
  location and runout controls.
- modifier: MMC or LMC only for size features (holes, bosses, slots, grooves,
  shafts, patterns) with a mating condition; null otherwise.
- confidence: between 0.0 and 1.0.

Example:
Input: {"feature_type": "hole", "geometry": {"diameter": 10.0, "depth": 25.0}, "material": "AL6061-T6", "manufacturing_process": "cnc_milling", "mating_condition": "clearance_fit_bolt"}
Output: {"primary_control": "position", "symbol": "⊕", "symbol_name": "position", "tolerance_class": "medium", "datum_required": true, "modifier": "MMC", "reasoning_key": "clearance_hole_position_mmc", "confidence": 0.96}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Choose exactly one primary control`

const generateSpec = `Respond with a JSON object matching this exact structure:

{
  "callouts": [
    {
      "feature": "<feature description>",
      "symbol": "<unicode symbol>",
      "symbol_name": "<characteristic name>",
      "tolerance_value": "<number, optionally prefixed with ⌀>",
      "unit": "mm",
      "modifier": "MMC|LMC|null",
      "modifier_symbol": "Ⓜ|Ⓛ|null",
      "datum_references": ["A", "B"],
      "feature_control_frame": "|symbol| tolerance | A | B |",
      "reasoning": "<why this control and value>"
    }
  ],
  "summary": "<one or two sentences>",
  "manufacturing_notes": "<process capability against the chosen tolerance>",
  "standards_references": ["ASME Y14.5-2018 <section>"],
  "warnings": ["<considerations for the engineer>"],
  "tertiary_datum": null
}

Field constraints:
- tolerance_value: a positive number. Prefix ⌀ only for cylindrical
  tolerance zones such as the position of a hole.
- datum_references: only labels from the supplied datum scheme, in
  precedence order. Form controls take none.
- tertiary_datum: null, or {"label": "C", "surface": "...", "rationale": "..."}
  when a third datum is needed and the scheme already has A and B.

Typical tolerance ranges by process:
- CNC milling: 0.01-0.05mm tight, 0.05-0.15mm medium
- Turning: 0.005-0.025mm tight, 0.025-0.10mm medium
- Sheet metal: 0.10-0.50mm medium, 0.50-1.00mm loose
- Casting: 0.25-1.00mm medium, 1.00-2.50mm loose
- Woodworking: 0.10-0.50mm medium, 0.50-2.00mm loose
- FDM printing: 0.20-0.50mm medium, 0.50-1.00mm loose

Example output for a flat cast surface:
{"callouts": [{"feature": "Base plate top surface", "symbol": "▱", "symbol_name": "flatness", "tolerance_value": "0.25", "unit": "mm", "modifier": null, "modifier_symbol": null, "datum_references": [], "feature_control_frame": "|▱| 0.25 |", "reasoning": "Casting holds 0.25mm flatness for assembly contact per ASME Y14.5-2018 6.4.2."}], "summary": "Flatness on the primary mounting surface.", "manufacturing_notes": "Casting typically achieves 0.25-1.00mm flatness.", "standards_references": ["ASME Y14.5-2018 6.4.2"], "warnings": [], "tertiary_datum": null}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Produce at least one callout`

var specs = map[Stage]string{
	StageExtract:  extractSpec,
	StageClassify: classifySpec,
	StageGenerate: generateSpec,
}

// Spec returns the output format specification for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
