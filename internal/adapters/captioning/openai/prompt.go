package openai

import "encoding/json"

type chatRequest struct {
	Model          string         `json:"model"`
	ResponseFormat responseFormat `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Forma del JSON que pedimos al modelo. Cada valor es la instrucción del campo.
var captionShape = map[string]string{
	"gender":            "<the gender of the pet if written in the image, macho for male, fêmea for female, and indefinido if you can't identify>",
	"species":           "<The species of the pet, if dog return Cachorro, if cat return Gato>",
	"text":              "<The full text description of the pet, combining all the requested details>",
	"predominant_color": "<The predominant color of the pet>",
	"additional_colors": "<Any additional colors of the pet>",
	"breed":             "<The pet breed, if mixed, output in the format Vira Lata / <predominant breed that is mixed with>. Be assertive, do not use words like possibly or maybe!>",
	"color":             "<The color of the pet, if two provide in the format <predominant color> e <secondary color>, if three or more, provide them separated by a slash: like Black / White / Grey>. Always capitalize the first letter of each color.>",
	"size":              "<The size of the pet, PP for very small, P for small, M for medium and G for big. Do not return a combination of sizes, be assertive>",
	"eye_color":         "<The eye color of the pet, don't specify expression>",
	"fur_length":        "<The fur length of the pet>",
	"fur_pattern":       "<The fur pattern of the pet, if applicable, if not applicable return null>",
	"face_description":  "<The face description of the pet, be very detailed>",
	"body_description":  "<The body description of the pet, be very detailed, if unabled to detect from picture, return null>",
}

const userPrompt = "Me descreva esse pet detalhadamente. Se a raça for uma mistura, cite traços de quais raças pode ser. " +
	"Não incluir na resposta Informações sobre coleira ou o ambiente em que o pet está."

func systemPrompt() string {
	shape, _ := json.Marshal(captionShape)
	return "You are a helpful assistant that generates description of pets based on a user input image. " +
		"You provide answers in JSON format (without using Markdown code blocks or any other formatting). " +
		"The JSON structure should be as follows: " + string(shape)
}

func (c *Captioner) request(src string) chatRequest {
	return chatRequest{
		Model:          c.model,
		ResponseFormat: responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt()},
			{Role: "assistant", Content: "Provide your answer in brazilian portuguese"},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: src, Detail: "high"}},
			}},
		},
	}
}
