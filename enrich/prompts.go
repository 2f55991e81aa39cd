package enrich

const tablePrompt = `Analyze this table image and provide:
1. A descriptive title for the table
2. The column headers (list them)

Respond in JSON format only:
{"title": "...", "column_headers": ["col1", "col2", ...]}`

const imagePrompt = `Analyze this image and provide:
1. A short descriptive title
2. A detailed description of what the image shows

Respond in JSON format only:
{"title": "...", "description": "..."}`
