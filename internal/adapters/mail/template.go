package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const otpSubject = "🔥 SuckDSA - Verify Your Email (OTP Inside)"

var otpHTML = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 20px; border-radius: 10px;">
  <div style="background: white; padding: 30px; border-radius: 10px; text-align: center;">
    <h1 style="color: #667eea; margin-bottom: 20px;">🔥 Welcome to SuckDSA!</h1>
    <p style="font-size: 18px; color: #333; margin-bottom: 20px;">
      Arre <strong>{{.Name}}</strong>! Ready to get roasted while learning DSA? 😏
    </p>
    <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p style="font-size: 16px; color: #666; margin-bottom: 10px;">Your OTP is:</p>
      <h2 style="font-size: 36px; color: #667eea; letter-spacing: 5px; margin: 10px 0;">{{.Code}}</h2>
    </div>
    <p style="color: #666; font-size: 14px;">
      This OTP will expire in {{.Minutes}} minutes. Don't be slower than a government website! ⏰
    </p>
    <p style="color: #666; font-size: 14px; margin-top: 20px;">
      Ready to learn DSA with savage Indian analogies? Let's go! 🚀
    </p>
  </div>
</div>
`))

type otpView struct {
	Name    string
	Code    string
	Minutes int
}

func renderOTP(name, code string, ttl time.Duration) (text, html string, err error) {
	minutes := int(ttl / time.Minute)
	if minutes <= 0 {
		minutes = 5
	}
	var buf bytes.Buffer
	if err := otpHTML.Execute(&buf, otpView{Name: name, Code: code, Minutes: minutes}); err != nil {
		return "", "", fmt.Errorf("render otp email: %w", err)
	}
	text = fmt.Sprintf("Arre %s! Your SuckDSA OTP is %s. It expires in %d minutes.", name, code, minutes)
	return text, buf.String(), nil
}
